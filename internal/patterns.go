package internal

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// DefaultPatternSources is the built-in credential hunt set used when no
// pattern file is given. Patterns keep their authored case: lower/upper
// header variants are listed separately on purpose instead of relying on
// case-insensitive matching.
var DefaultPatternSources = []string{
	`db_password`,
	`password\s*[=:]`,
	`PASSWORD\s*[=:]`,
	`secret[_-]?key\s*[=:]`,
	`api[_-]?key\s*[=:]`,
	`API[_-]?KEY\s*[=:]`,
	`X-Api-Key`,
	`X-API-KEY`,
	`AKIA[0-9A-Z]{16}`,
	`AIza[0-9A-Za-z_\-]{35}`,
	`-----BEGIN [A-Z ]*PRIVATE KEY-----`,
	`Bearer [A-Za-z0-9\-._~+/]{16,}`,
}

// Pattern is one compiled content pattern, keeping its source for reports.
type Pattern struct {
	Source string
	re     *regexp.Regexp
}

// FindMatch returns the matched text of the first hit on the line.
func (p Pattern) FindMatch(line string) (string, bool) {
	loc := p.re.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[0]:loc[1]], true
}

// CompilePatterns compiles every source, collecting all invalid ones into a
// single error instead of stopping at the first.
func CompilePatterns(sources []string) ([]Pattern, error) {
	var merr *multierror.Error
	ps := make([]Pattern, 0, len(sources))
	for _, src := range sources {
		re, err := regexp.Compile(src)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("invalid pattern %q: %w", src, err))
			continue
		}
		ps = append(ps, Pattern{Source: src, re: re})
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	logrus.Debugf("Compiled %d patterns", len(ps))
	return ps, nil
}

// LoadPatternFile reads regex sources from a file, one per line.
// Blank lines and # comments are skipped.
func LoadPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sources []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	return sources, nil
}
