package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/itsatony/go-theo"
)

// buildConfig holds parsed build command configuration
type buildConfig struct {
	configPath string
	quiet      bool
	verbose    bool
	patterns   []string
}

func runBuild(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseBuildFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWorkingDirFailed, err)
		return ExitCodeError
	}

	paths, err := collectTemplatePaths(cwd, cfg.patterns)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCollectFailed, err)
		return ExitCodeInputError
	}
	if len(paths) == 0 {
		fmt.Fprintln(stderr, ErrMsgNoTemplates)
		return ExitCodeSuccess
	}

	config, err := loadConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeInputError
	}

	logger := newLogger(cfg.verbose, stderr)
	engine, err := config.NewEngine(logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeError
	}

	cache, err := theo.OpenCache(config.Cache, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCacheFailed, err)
		return ExitCodeError
	}
	compiler := theo.NewCachedEngine(engine, cache)
	defer compiler.Close()

	ctx := context.Background()
	exitCode := ExitCodeSuccess
	failed := 0
	for _, path := range paths {
		outPath, err := buildFile(ctx, compiler, cwd, path)
		if err != nil {
			failed++
			fmt.Fprintf(stderr, BuildTextFailed+FmtNewline, displayPath(cwd, path), err)
			if code := exitCodeFor(err); code > exitCode {
				exitCode = code
			}
			continue
		}
		if !cfg.quiet {
			fmt.Fprintf(stdout, BuildTextWrote+FmtNewline, displayPath(cwd, outPath))
		}
	}

	if !cfg.quiet || failed > 0 {
		fmt.Fprintf(stdout, BuildTextSummary+FmtNewline, len(paths)-failed, failed)
	}
	return exitCode
}

func parseBuildFlags(args []string) (*buildConfig, error) {
	flags := flag.NewFlagSet(CmdNameBuild, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	cfg := &buildConfig{}

	flags.StringVar(&cfg.configPath, FlagConfig, "", "")
	flags.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	flags.BoolVar(&cfg.quiet, FlagQuiet, false, "")
	flags.BoolVar(&cfg.quiet, FlagQuietShort, false, "")
	flags.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	flags.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg.patterns = flags.Args()
	if len(cfg.patterns) == 0 {
		cfg.patterns = []string{DefaultBuildPattern}
	}

	return cfg, nil
}

// buildFile compiles one template and writes it next to the source
func buildFile(ctx context.Context, compiler *theo.CachedEngine, cwd, path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	output, err := compiler.Compile(ctx, displayPath(cwd, path), string(source))
	if err != nil {
		return "", err
	}

	outPath := outputPath(path)
	if err := os.WriteFile(outPath, []byte(output), FilePermissions); err != nil {
		return "", err
	}
	return outPath, nil
}

// outputPath strips the template extension: show.html.erb.theo -> show.html.erb
func outputPath(path string) string {
	return strings.TrimSuffix(path, TemplateExt)
}

// displayPath returns path relative to cwd when possible
func displayPath(cwd, path string) string {
	if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// collectTemplatePaths expands build patterns into absolute, deduplicated,
// sorted template paths. Patterns ending in "..." recurse.
func collectTemplatePaths(cwd string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, raw := range patterns {
		pat := strings.TrimSpace(raw)
		if pat == "" {
			continue
		}

		if strings.HasSuffix(pat, RecursivePatternSuffix) {
			base := strings.TrimSuffix(strings.TrimSuffix(pat, RecursivePatternSuffix), "/")
			if base == "" {
				base = "."
			}
			dir, err := absPath(cwd, base)
			if err != nil {
				return nil, err
			}
			if err := walkTemplates(dir, add); err != nil {
				return nil, err
			}
			continue
		}

		target, err := absPath(cwd, pat)
		if err != nil {
			return nil, err
		}
		st, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			entries, err := os.ReadDir(target)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if !e.IsDir() && isTemplate(e.Name()) {
					add(filepath.Join(target, e.Name()))
				}
			}
			continue
		}
		if !isTemplate(target) {
			return nil, fmt.Errorf(FmtPathDetail, ErrMsgNotATemplate, target)
		}
		add(target)
	}

	sort.Strings(out)
	return out, nil
}

func walkTemplates(root string, add func(string)) error {
	return filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			if path != root && skipDir(de.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isTemplate(de.Name()) {
			add(path)
		}
		return nil
	})
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, skip := skippedDirs[name]
	return skip
}

func isTemplate(name string) bool {
	return strings.HasSuffix(name, TemplateExt) && len(filepath.Base(name)) > len(TemplateExt)
}

func absPath(cwd, p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	return filepath.Abs(p)
}
