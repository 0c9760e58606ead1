package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"goacc/pkg/asm"
	"goacc/pkg/vm"
)

const (
	screenWidth  = 640
	screenHeight = 400

	lineHeight     = 14
	listingRows    = 24
	memoryRows     = 16
	outputRows     = 8
	defaultPerTick = 5000
)

var (
	colorText    = color.RGBA{0xd0, 0xd0, 0xd0, 0xff}
	colorCurrent = color.RGBA{0xff, 0xd0, 0x40, 0xff}
	colorDim     = color.RGBA{0x80, 0x80, 0x80, 0xff}
	colorError   = color.RGBA{0xff, 0x50, 0x50, 0xff}
)

// Game is a step debugger for one machine.
type Game struct {
	m       *vm.Machine
	running bool
	perTick int
	input   []rune
	err     error

	face text.Face
}

func NewGame(prog asm.Program, perTick int, opts ...vm.Option) *Game {
	if perTick <= 0 {
		perTick = defaultPerTick
	}
	return &Game{m: vm.New(prog, opts...), perTick: perTick}
}

// step executes one instruction. A GET without input leaves the machine
// waiting for the input line.
func (g *Game) step() {
	if g.m.Halted || g.err != nil {
		return
	}
	if err := g.m.Step(); err != nil && !errors.Is(err, vm.ErrNoInput) {
		g.err = err
		g.running = false
	}
}

// tick advances a running machine by up to perTick instructions.
func (g *Game) tick() {
	if !g.running {
		return
	}
	for i := 0; i < g.perTick; i++ {
		if g.m.Halted || g.m.Waiting || g.err != nil {
			break
		}
		g.step()
	}
	if g.m.Halted {
		g.running = false
	}
}

func (g *Game) typeRune(r rune) {
	if (r >= '0' && r <= '9') || (r == '-' && len(g.input) == 0) {
		g.input = append(g.input, r)
	}
}

func (g *Game) backspace() {
	if len(g.input) > 0 {
		g.input = g.input[:len(g.input)-1]
	}
}

// submit pushes the typed number to the machine.
func (g *Game) submit() error {
	if len(g.input) == 0 {
		return nil
	}
	v, err := strconv.ParseInt(string(g.input), 10, 64)
	g.input = g.input[:0]
	if err != nil {
		return err
	}
	g.m.PushInput(v)
	return nil
}

// runToEnd runs without rendering until the machine halts or blocks.
func (g *Game) runToEnd(ctx context.Context) {
	if g.err != nil {
		return
	}
	if err := g.m.RunUntilBlocked(ctx); err != nil {
		g.err = err
	}
}

func (g *Game) Update() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		g.typeRune(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if err := g.submit(); err != nil {
			g.err = err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.running = false
		g.step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.running = !g.running
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.runToEnd(context.Background())
	}
	g.tick()
	return nil
}

func (g *Game) status() string {
	switch {
	case g.err != nil:
		return "error: " + g.err.Error()
	case g.m.Halted:
		return "halted"
	case g.m.Waiting:
		return "waiting for input"
	case g.running:
		return "running"
	default:
		return "paused"
	}
}

// listingWindow returns the instruction lines around the program counter.
func (g *Game) listingWindow() (lines []string, current int) {
	prog := g.m.Program
	start := int(g.m.PC) - listingRows/2
	if start > len(prog)-listingRows {
		start = len(prog) - listingRows
	}
	if start < 0 {
		start = 0
	}
	current = -1
	for i := start; i < len(prog) && i < start+listingRows; i++ {
		line := fmt.Sprintf("%5d  %s", i, prog[i])
		if prog[i].Op.IsJump() {
			line += fmt.Sprintf("  -> %d", int64(i)+prog[i].Arg)
		}
		if int64(i) == g.m.PC {
			current = len(lines)
		}
		lines = append(lines, line)
	}
	return lines, current
}

// registerLines describes the machine state shown on the right.
func (g *Game) registerLines() []string {
	lines := []string{
		fmt.Sprintf("PC    %d", g.m.PC),
		fmt.Sprintf("ACC   %d", g.m.Acc()),
		fmt.Sprintf("steps %d", g.m.Steps),
		fmt.Sprintf("cost  %d (io %d)", g.m.Cost, g.m.IOCost),
		"",
		"memory:",
	}
	for addr := int64(0); addr < memoryRows; addr++ {
		lines = append(lines, fmt.Sprintf("  [%3d] %d", addr, g.m.Cell(addr)))
	}
	return lines
}

func (g *Game) outputLines() []string {
	outs := g.m.Outputs()
	if len(outs) > outputRows {
		outs = outs[len(outs)-outputRows:]
	}
	lines := make([]string, len(outs))
	for i, v := range outs {
		lines[i] = "> " + strconv.FormatInt(v, 10)
	}
	return lines
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	if g.face == nil {
		g.face = text.NewGoXFace(basicfont.Face7x13)
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	lines, current := g.listingWindow()
	for i, line := range lines {
		clr := colorText
		if i == current {
			clr = colorCurrent
			line = ">" + line[1:]
		}
		g.drawText(screen, line, 8, 8+i*lineHeight, clr)
	}

	for i, line := range g.registerLines() {
		g.drawText(screen, line, 260, 8+i*lineHeight, colorText)
	}

	for i, line := range g.outputLines() {
		g.drawText(screen, line, 460, 8+i*lineHeight, colorText)
	}

	statusClr := colorDim
	if g.err != nil {
		statusClr = colorError
	}
	g.drawText(screen, g.status(), 8, screenHeight-40, statusClr)
	g.drawText(screen, "input: "+string(g.input)+"_", 260, screenHeight-40, colorText)

	help := strings.Join([]string{"space: step", "r: run/pause", "f: finish", "0-9 enter: input"}, "   ")
	ebitenutil.DebugPrintAt(screen, help, 8, screenHeight-20)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
