// Package envfile reads dotenv-style files into a name → value map for
// the auditor.
//
// The raw file bytes are sealed into a secure payload immediately after
// reading and wiped once parsing finishes; only the parsed values stay in
// ordinary memory for the duration of the run.
package envfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	kaerrors "github.com/systmms/keyaudit/internal/errors"
	"github.com/systmms/keyaudit/internal/secure"
)

// Load reads and parses a .env file. Blank lines and # comments are
// skipped, an "export " prefix is tolerated, and values may be wrapped in
// single or double quotes.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kaerrors.UserError{
			Message:    fmt.Sprintf("cannot read env file: %s", path),
			Suggestion: "check the path passed to --env-file",
			Err:        err,
		}
	}

	payload := secure.Protect(data)
	defer payload.Destroy()

	vars := make(map[string]string)
	err = payload.With(func(raw []byte) error {
		sc := bufio.NewScanner(bytes.NewReader(raw))
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			name, value, ok := parseLine(sc.Text())
			if !ok {
				continue
			}
			vars[name] = value
		}
		return sc.Err()
	})
	if err != nil {
		return nil, kaerrors.UserError{
			Message: fmt.Sprintf("cannot parse env file: %s", path),
			Err:     err,
		}
	}
	return vars, nil
}

// parseLine extracts one NAME=VALUE pair. Lines without an assignment,
// comments, and empty names are skipped.
func parseLine(line string) (name, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	name, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	return name, unquote(strings.TrimSpace(value)), true
}

// unquote strips one matching pair of single or double quotes and drops a
// trailing unquoted comment.
func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v
}
