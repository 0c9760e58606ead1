package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"goacc/pkg/asm"
	"goacc/pkg/compiler"
	"goacc/pkg/config"
	"goacc/pkg/utils"
	"goacc/pkg/vm"
)

// loadProgram compiles a source file or reads an already compiled one.
func loadProgram(path string) (asm.Program, error) {
	if filepath.Ext(path) == ".mr" {
		return utils.ReadProgram(path)
	}
	src, _, err := utils.ReadSource(path)
	if err != nil {
		return nil, err
	}
	res, err := compiler.Compile(src, nil)
	if res != nil && len(res.Diagnostics.All()) > 0 {
		fmt.Fprint(os.Stderr, res.Diagnostics.Render(false))
	}
	if err != nil {
		return nil, err
	}
	return res.Program, nil
}

func main() {
	cfg := config.FromEnv()
	perTick := flag.Int("speed", defaultPerTick, "instructions per frame while running")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: desktop [-speed n] <program.imp|program.mr>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	prog, err := loadProgram(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load program: %v", err)
	}

	game := NewGame(prog, *perTick, vm.WithStepLimit(int64(cfg.StepLimit)))

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("goacc debugger: " + filepath.Base(flag.Arg(0)))
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
