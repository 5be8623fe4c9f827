//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"image"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Without cgo the clipboard is served directly over the X11 protocol. The
// process keeps ownership of the CLIPBOARD selection and answers requests
// from its own event loop until another client takes it over.

var (
	initOnce sync.Once
	initErr  error
	backend  *selectionOwner
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		backend, initErr = newSelectionOwner()
	})
	return initErr
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return backend.publish(backend.offers(nil, data))
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return backend.publish(backend.offers([]byte(text), nil))
}

// offer is the payload served for one selection target.
type offer struct {
	typ  xproto.Atom
	data []byte
}

type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window

	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom

	mu      sync.RWMutex
	current map[xproto.Atom]offer
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	create := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask)
	if err := create.Check(); err != nil {
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: window}
	for name, dst := range map[string]*xproto.Atom{
		"CLIPBOARD":                &o.clipboard,
		"TARGETS":                  &o.targets,
		"UTF8_STRING":              &o.utf8,
		"text/plain;charset=utf-8": &o.textPlain,
		"image/png":                &o.png,
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			xproto.DestroyWindow(conn, window)
			conn.Close()
			return nil, err
		}
		*dst = reply.Atom
	}
	go o.serve()
	return o, nil
}

// offers maps every target a requestor may ask for to its payload. Text is
// served under all the usual text targets.
func (o *selectionOwner) offers(text, png []byte) map[xproto.Atom]offer {
	m := make(map[xproto.Atom]offer)
	if len(text) > 0 {
		t := offer{typ: o.utf8, data: append([]byte(nil), text...)}
		m[o.utf8] = t
		m[o.textPlain] = t
		m[xproto.AtomString] = t
	}
	if len(png) > 0 {
		m[o.png] = offer{typ: o.png, data: append([]byte(nil), png...)}
	}
	return m
}

func (o *selectionOwner) publish(m map[xproto.Atom]offer) error {
	o.mu.Lock()
	o.current = m
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.current = nil
			o.mu.Unlock()
		}
	}
}

// answer writes the requested target to the requestor's property and tells
// it so; unknown or empty targets are refused with property None.
func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}

	o.mu.RLock()
	m := o.current
	o.mu.RUnlock()

	if e.Target == o.targets {
		list := []xproto.Atom{o.targets}
		for atom := range m {
			list = append(list, atom)
		}
		buf := make([]byte, 4*len(list))
		for i, atom := range list {
			xgb.Put32(buf[4*i:], uint32(atom))
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, prop, xproto.AtomAtom, 32, uint32(len(list)), buf)
	} else if off, ok := m[e.Target]; ok {
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, prop, off.typ, 8, uint32(len(off.data)), off.data)
	} else {
		prop = xproto.AtomNone
	}

	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	_ = xproto.SendEvent(o.conn, false, e.Requestor, 0, string(reply.Bytes()))
}
