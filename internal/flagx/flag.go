// Package flagx holds helpers for splitting one argument list between
// several independent flag sets.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the allowedFlags (e.g. []string{"-a", "-m", "-d"})
// and their values from args. Both "-a value" and "-a=value" forms are
// recognized; everything else is dropped.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// -flag=value
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		// The next token is the value unless it looks like a flag.
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the config file path given via -c or -config.
// Other arguments are ignored, so callers can parse their own flags
// independently. The last occurrence wins; "" means none was given.
func ConfigPath(args []string) string {
	var config string

	args = FilterArgs(args, []string{"-c", "-config"})

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
