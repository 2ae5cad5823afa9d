//go:build ignore

// build.go - NBA dashboard build system
// Usage: go run build.go [-target=TARGET]
// Targets: all, web, gamelogs, sqlconvert, clean, test, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

const (
	version = "1.0.0"
	module  = "nbadash"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Release bool
	OS      string
	Arch    string
}

var (
	distDir = "dist"

	// key = source dir under cmd/, value = output name without extension
	executables = map[string]string{
		"web":        "nbadash",
		"gamelogs":   "gamelogs",
		"sqlconvert": "sqlconvert",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	goos := flag.String("os", runtime.GOOS, "Target operating system")
	goarch := flag.String("arch", runtime.GOARCH, "Target architecture")
	flag.Parse()

	if runtime.GOOS == "windows" {
		enableWindowsColors()
	}

	printHeader()
	startTime := time.Now()

	ctx := &BuildContext{Verbose: *verbose, OS: *goos, Arch: *goarch}

	switch *target {
	case "all":
		buildAll(ctx)
	case "web", "gamelogs", "sqlconvert":
		prepareDirectories()
		buildExecutable(*target, ctx)
	case "clean":
		clean()
	case "test":
		runTests(ctx.Verbose)
	case "release":
		ctx.Release = true
		runTests(ctx.Verbose)
		buildAll(ctx)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "        NBA Dashboard - Build System       " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

func enableWindowsColors() {
	cmd := exec.Command("cmd", "/c", "echo", "")
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	cmd.Run()
}

func buildAll(ctx *BuildContext) {
	printInfo("Building all components...")
	prepareDirectories()

	names := make([]string, 0, len(executables))
	for name := range executables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		buildExecutable(name, ctx)
	}

	copyConfigFiles()
	printSuccess("All components built successfully!")
}

func buildExecutable(name string, ctx *BuildContext) {
	exeName, ok := executables[name]
	if !ok {
		printError(fmt.Sprintf("Unknown executable: %s", name))
		os.Exit(1)
	}
	if ctx.OS == "windows" {
		exeName += ".exe"
	}

	printInfo(fmt.Sprintf("Building %s (%s/%s)...", name, ctx.OS, ctx.Arch))

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-X %s/internal/app.Version=%s", module, version)
	if ctx.Release {
		ldflags = "-s -w " + ldflags
	}

	args := []string{"build"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	if ctx.Release {
		args = append(args, "-trimpath")
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "GOOS="+ctx.OS, "GOARCH="+ctx.Arch)
	if ctx.Verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, sizeMB))
	}
}

func prepareDirectories() {
	if err := os.MkdirAll(filepath.Join(distDir, "data"), 0755); err != nil {
		printError(fmt.Sprintf("Failed to create %s: %v", distDir, err))
		os.Exit(1)
	}
}

// copyConfigFiles copies an optional .env next to the binaries
func copyConfigFiles() {
	data, err := os.ReadFile(".env.example")
	if err != nil {
		if !os.IsNotExist(err) {
			printWarning(fmt.Sprintf("Could not read .env.example: %v", err))
		}
		return
	}
	if err := os.WriteFile(filepath.Join(distDir, ".env.example"), data, 0644); err != nil {
		printWarning(fmt.Sprintf("Could not copy .env.example: %v", err))
	}
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
		os.Exit(1)
	}
	printSuccess("Build artifacts cleaned")
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func showHelp() {
	fmt.Println("Usage: go run build.go -target=TARGET [-v] [-os=GOOS] [-arch=GOARCH]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all         Build every executable (default)")
	fmt.Println("  web         Build the dashboard web server")
	fmt.Println("  gamelogs    Build the game log CLI")
	fmt.Println("  sqlconvert  Build the CSV to SQLite archive converter")
	fmt.Println("  test        Run the test suite with the race detector")
	fmt.Println("  clean       Remove build artifacts")
	fmt.Println("  release     Test, then build stripped binaries")
}
