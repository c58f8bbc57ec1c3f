// Command overlaydemo shows the debug overlay in a terminal.
//
// It registers the terminal backend as the shared overlay resource bundle
// and draws a frame counter, a color palette and a moving bar until a key
// is pressed.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/overlay"
	"github.com/gogpu/overlay/internal/term"
)

func main() {
	var (
		fps     = flag.Int("fps", 30, "frames per second")
		frames  = flag.Int("frames", 0, "stop after this many frames (0 runs until a key is pressed)")
		logFile = flag.String("log", "", "write debug logs to this file")
		textHex = flag.String("color", "FFF", "default text color as RGB, RGBA, RRGGBB or RRGGBBAA hex")
	)
	flag.Parse()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		overlay.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init screen: %v", err)
	}
	defer screen.Fini()

	overlay.RegisterResources(overlay.ResourceBundleName, func() (*overlay.Resources, error) {
		return term.NewResources(), nil
	})
	defer overlay.ReleaseResources()

	w, h := screen.Size()
	o := overlay.New(overlay.WithColor(overlay.Hex(*textHex)))
	o.Init(w, h)
	defer o.Shutdown()

	events := make(chan tcell.Event, 8)
	go pollEvents(screen, events)

	ticker := time.NewTicker(time.Second / time.Duration(max(*fps, 1)))
	defer ticker.Stop()

	run(screen, o, events, ticker.C, *frames)
}

// run draws one frame per tick until a key is pressed or limit frames have
// been drawn, with 0 meaning no limit. It returns the number of frames drawn.
func run(screen tcell.Screen, o *overlay.Overlay, events <-chan tcell.Event, tick <-chan time.Time, limit int) int {
	start := time.Now()
	frame := 0
	for limit == 0 || frame < limit {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				o.Init(ev.Size())
			case *tcell.EventKey:
				return frame
			}
		case <-tick:
			frame++
			screen.Clear()
			drawFrame(frame, time.Since(start))
			overlay.Tick()
			overlay.Render(term.NewEncoder(screen))
			screen.Show()
		}
	}
	return frame
}

// pollEvents forwards terminal events until the screen is finalized.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		events <- ev
	}
}

func drawFrame(frame int, elapsed time.Duration) {
	overlay.Writef(1, 0, "^FF0overlay^FFF frame %d  %.1fs", frame, elapsed.Seconds())
	overlay.WriteColorf(overlay.Gray, 1, 1, "press any key to quit")

	palette := []overlay.RGBA{
		overlay.Red, overlay.Yellow, overlay.Green,
		overlay.Cyan, overlay.Blue, overlay.Magenta,
	}
	overlay.SetOrigin(1, 3)
	for i, c := range palette {
		overlay.DrawRect(float32(i*4), 0, 3, 1, c)
	}
	overlay.Write(0, 1, "^F00R^FF0Y^0F0G^0FFC^00FB^F0FM")

	bar := float32(frame % 40)
	overlay.DrawRect(0, 3, 40, 1, overlay.RGBA2(0.2, 0.2, 0.2, 1))
	overlay.DrawRect(bar, 3, 1, 1, overlay.White)
	overlay.Write(0, 4, "<-- 40 cells -->")
}
