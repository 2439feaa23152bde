package engine

import "context"

// Display is the window the loop draws into.
type Display interface {
	ShouldClose() bool
	BeginFrame()
	EndFrame()
}

// Loop redraws every display refresh until the display closes, the context is cancelled or
// Frame fails.
type Loop struct {
	Display Display
	Frame   func(ctx context.Context) error
}

// Run blocks until the loop stops. It returns Frame's error, or nil on a normal stop.
func (l Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil || l.Display.ShouldClose() {
			return nil
		}
		l.Display.BeginFrame()
		var err error
		if l.Frame != nil {
			err = l.Frame(ctx)
		}
		l.Display.EndFrame()
		if err != nil {
			return err
		}
	}
}
