package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/philipparndt/gridlib/pkg/render"
	"github.com/philipparndt/gridlib/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and regenerate previews on model changes",
	Long: `Watch a directory for changes to STL and 3MF files and re-render the
orthographic and perspective previews for each changed model. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "settle time before re-rendering a changed file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	directory := args[0]
	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		return fmt.Errorf("directory not found: %s", directory)
	}

	mw, err := watcher.New([]string{".stl", ".3mf"}, watchDebounce, regeneratePreviews)
	if err != nil {
		return err
	}
	defer mw.Close()

	if err := mw.Watch(directory); err != nil {
		return err
	}
	mw.Start()

	fmt.Printf("Watching %s for model changes (Ctrl+C to stop)...\n", directory)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals
	fmt.Println("\nStopped.")
	return nil
}

// regeneratePreviews re-renders both preview styles for a changed model
func regeneratePreviews(modelPath string) {
	stem := strings.TrimSuffix(modelPath, filepath.Ext(modelPath))

	opts := render.DefaultOptions()
	opts.Quiet = true

	fmt.Printf("Change detected: %s\n", filepath.Base(modelPath))

	ortho := render.NewRenderer(render.ModeOrthographic)
	if err := ortho.RenderFile(modelPath, stem+".png", opts); err != nil {
		fmt.Fprintf(os.Stderr, "  FAILED ortho: %v\n", err)
		return
	}
	fmt.Printf("  Rendered %s.png\n", filepath.Base(stem))

	perspective := render.NewRenderer(render.ModePerspective)
	if err := perspective.RenderFile(modelPath, stem+"-perspective.png", opts); err != nil {
		fmt.Fprintf(os.Stderr, "  FAILED perspective: %v\n", err)
		return
	}
	fmt.Printf("  Rendered %s-perspective.png\n", filepath.Base(stem))
}
