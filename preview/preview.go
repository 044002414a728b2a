// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview provides a display.Drawer that is also an http.Handler, so
// the clock face can be watched from a browser.
//
// GET / streams the frames as "multipart/x-mixed-replace" (MJPEG), sending
// a new part on every Draw. GET /frame.png and /frame.jpg return the current
// frame once. The stream uses the format given to New unless the request
// carries "?format=png" or "?format=jpeg".
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"periph.io/x/conn/v3/display"
)

// Format is an image encoding.
type Format int

const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	if f == JPEG {
		return "jpeg"
	}
	return "png"
}

func (f Format) mimeType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// ParseFormat accepts "png", "jpg" and "jpeg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return PNG, fmt.Errorf("preview: unknown image format %q", s)
}

// Display keeps the last frame in memory and streams it to HTTP clients.
type Display struct {
	mu      sync.Mutex
	frame   *image.RGBA
	changed chan struct{}
	halted  bool
	format  Format
	// encoded caches the current frame per format.
	encoded map[Format][]byte
}

var _ display.Drawer = (*Display)(nil)
var _ http.Handler = (*Display)(nil)

// New returns a black w x h display that streams in format f by default.
// PNG suits computer drawn text better than JPEG.
func New(w, h int, f Format) *Display {
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(frame, frame.Bounds(), image.Black, image.Point{}, draw.Src)
	return &Display{
		frame:   frame,
		changed: make(chan struct{}),
		format:  f,
		encoded: map[Format][]byte{},
	}
}

func (d *Display) String() string {
	return "Preview"
}

// Halt implements conn.Resource. Streams in progress end; later requests
// still get the last frame.
func (d *Display) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.halted {
		d.halted = true
		close(d.changed)
	}
	return nil
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.frame.Bounds()
}

// Draw implements display.Drawer.
func (d *Display) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	draw.Draw(d.frame, r, src, sp, draw.Src)
	clear(d.encoded)
	if !d.halted {
		close(d.changed)
		d.changed = make(chan struct{})
	}
	return nil
}

// snapshot returns the encoded current frame and a channel closed on the
// next change.
func (d *Display) snapshot(f Format) ([]byte, <-chan struct{}, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.encoded[f]
	if !ok {
		var buf bytes.Buffer
		var err error
		if f == JPEG {
			err = jpeg.Encode(&buf, d.frame, &jpeg.Options{Quality: 95})
		} else {
			err = (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(&buf, d.frame)
		}
		if err != nil {
			return nil, nil, false, fmt.Errorf("preview: encode %s: %w", f, err)
		}
		b = buf.Bytes()
		d.encoded[f] = b
	}
	return b, d.changed, d.halted, nil
}

// ServeHTTP implements http.Handler.
func (d *Display) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	f := d.format
	if q := r.URL.Query().Get("format"); q != "" {
		var err error
		if f, err = ParseFormat(q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	switch {
	case strings.HasSuffix(r.URL.Path, ".png"):
		d.serveFrame(w, PNG)
		return
	case strings.HasSuffix(r.URL.Path, ".jpg"):
		d.serveFrame(w, JPEG)
		return
	}
	d.serveStream(w, r, f)
}

func (d *Display) serveFrame(w http.ResponseWriter, f Format) {
	b, _, _, err := d.snapshot(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", f.mimeType())
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	_, _ = w.Write(b)
}

func (d *Display) serveStream(w http.ResponseWriter, r *http.Request, f Format) {
	boundary := strings.ReplaceAll(uuid.NewString(), "-", "")
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": boundary}))
	w.Header().Set("Cache-Control", "no-store")
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Type", f.mimeType())
	first := true
	for {
		b, changed, halted, err := d.snapshot(f)
		if err != nil {
			slog.Error("Preview frame", "error", err)
			return
		}
		if halted && !first {
			return
		}
		// There is no way to report an error inside an image stream, so a
		// failed write just ends the request.
		if err := writePart(w, boundary, first, hdr, b); err != nil {
			return
		}
		first = false
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
		if halted {
			return
		}
		select {
		case <-changed:
		case <-r.Context().Done():
			return
		}
	}
}

// writePart writes one part and its closing boundary line, so the client can
// show the frame without waiting for the next one. mime/multipart only
// writes the boundary when the next part starts.
func writePart(w io.Writer, boundary string, first bool, hdr textproto.MIMEHeader, body []byte) error {
	var buf bytes.Buffer
	if first {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
	}
	hdr.Set("Content-Length", strconv.Itoa(len(body)))
	for k, vs := range hdr {
		for _, v := range vs {
			fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
		}
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", boundary)
	_, err := buf.WriteTo(w)
	return err
}
