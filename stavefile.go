//go:build stave

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
)

// Default target when running `stave` with no arguments.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"w": Windows,
	"c": Clean,
}

const (
	binaryName = "ssdclean"
	mainPkg    = "./cmd/ssdclean"
	binDir     = "bin"
	modulePath = "github.com/jamesainslie/ssdclean"
)

// All runs the complete build pipeline.
func All() error {
	st.Deps(Lint, Test)
	st.Deps(Build, Windows)
	return nil
}

// Build compiles ssdclean for the host platform.
func Build() error {
	return buildFor("", "")
}

// Windows cross-compiles the amd64 Windows binary, the platform the
// cleanup and optimization tools target.
func Windows() error {
	return buildFor("windows", "amd64")
}

func buildFor(goos, goarch string) error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating bin directory: %w", err)
	}

	name := binaryName
	env := map[string]string{}
	if goos != "" {
		env["GOOS"] = goos
		env["GOARCH"] = goarch
		name = fmt.Sprintf("%s-%s-%s", binaryName, goos, goarch)
	}
	if goos == "windows" || (goos == "" && hostIsWindows()) {
		name += ".exe"
	}

	output := filepath.Join(binDir, name)
	if st.Verbose() {
		fmt.Printf("Building %s\n", output)
	}
	return sh.RunWithV(env, "go", "build", "-trimpath", "-ldflags", buildLdflags(), "-o", output, mainPkg)
}

// Install builds and copies ssdclean into GOBIN.
func Install() error {
	st.Deps(Build)

	bin, err := installDir()
	if err != nil {
		return err
	}
	src := filepath.Join(binDir, exeName(binaryName))
	dst := filepath.Join(bin, exeName(binaryName))
	if st.Verbose() {
		fmt.Printf("Installing %s to %s\n", src, dst)
	}
	return sh.Copy(dst, src)
}

// Uninstall removes the installed binary.
func Uninstall() error {
	bin, err := installDir()
	if err != nil {
		return err
	}
	target := filepath.Join(bin, exeName(binaryName))
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(target)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// Vet checks the Windows build, which host tests do not compile.
func Vet() error {
	return sh.RunWithV(map[string]string{"GOOS": "windows"}, "go", "vet", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm(binDir + "/")
}

// Fmt formats all Go code.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("running gofmt: %w", err)
	}
	return sh.Run("goimports", "-local", modulePath, "-w", ".")
}

// Tidy runs go mod tidy.
func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

// installDir returns GOBIN, then GOPATH/bin, then /usr/local/bin.
func installDir() (string, error) {
	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return "", fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin != "" {
		return bin, nil
	}
	gopath, err := sh.Output(gocmd, "env", "GOPATH")
	if err != nil {
		return "", fmt.Errorf("determining GOPATH: %w", err)
	}
	if gopath == "" {
		return "/usr/local/bin", nil
	}
	return filepath.Join(gopath, "bin"), nil
}

func hostIsWindows() bool {
	return os.PathSeparator == '\\'
}

func exeName(name string) string {
	if hostIsWindows() {
		return name + ".exe"
	}
	return name
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version := "dev"
	commit := "unknown"
	date := time.Now().UTC().Format(time.RFC3339)

	if v, err := sh.Output("git", "describe", "--tags", "--always"); err == nil && v != "" {
		version = strings.TrimSpace(v)
	}
	if c, err := sh.Output("git", "rev-parse", "--short", "HEAD"); err == nil && c != "" {
		commit = strings.TrimSpace(c)
	}

	pkg := modulePath + "/cmd/ssdclean"
	return fmt.Sprintf(
		"-s -w -X %s.version=%s -X %s.commit=%s -X %s.date=%s",
		pkg, version, pkg, commit, pkg, date,
	)
}
