// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package remote

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/GermanBionicSystems/termclock/settings"
)

// Handlers receive decoded messages. They are called on a NATS goroutine and
// must hand the work over to the event loop. Either may be nil.
type Handlers struct {
	Settings func([]settings.Tuple)
	Link     func(connected bool)
}

// Subscriber listens on <prefix>.settings and <prefix>.link.
type Subscriber struct {
	conn *nats.Conn
	subs []*nats.Subscription
	h    Handlers
}

// Subjects returns the settings and link subjects for prefix.
func Subjects(prefix string) (settingsSubject, linkSubject string) {
	return prefix + ".settings", prefix + ".link"
}

// Connect dials url and subscribes. name identifies this client to the
// server.
func Connect(url, name, prefix string, h Handlers) (*Subscriber, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("remote: connect to NATS: %w", err)
	}
	s, err := Subscribe(nc, prefix, h)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return s, nil
}

// Subscribe subscribes on an existing connection. Close drains the
// connection.
func Subscribe(nc *nats.Conn, prefix string, h Handlers) (*Subscriber, error) {
	s := &Subscriber{conn: nc, h: h}
	settingsSubject, linkSubject := Subjects(prefix)
	for subject, fn := range map[string]nats.MsgHandler{
		settingsSubject: s.handleSettings,
		linkSubject:     s.handleLink,
	} {
		sub, err := nc.Subscribe(subject, fn)
		if err != nil {
			for _, prev := range s.subs {
				_ = prev.Unsubscribe()
			}
			return nil, fmt.Errorf("remote: subscribe %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}
	slog.Info("Subscribed to remote settings", "settings", settingsSubject, "link", linkSubject)
	return s, nil
}

func (s *Subscriber) handleSettings(m *nats.Msg) {
	tuples, err := DecodeJSON(m.Data)
	if err != nil {
		slog.Warn("Ignoring settings update", "subject", m.Subject, "error", err)
		return
	}
	slog.Debug("Settings update received", "subject", m.Subject, "tuples", len(tuples))
	if s.h.Settings != nil {
		s.h.Settings(tuples)
	}
}

func (s *Subscriber) handleLink(m *nats.Msg) {
	connected, err := DecodeLink(m.Data)
	if err != nil {
		slog.Warn("Ignoring link status", "subject", m.Subject, "error", err)
		return
	}
	if s.h.Link != nil {
		s.h.Link(connected)
	}
}

// Close unsubscribes and drains the connection.
func (s *Subscriber) Close() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Drain(); err != nil {
		return fmt.Errorf("remote: drain: %w", err)
	}
	return nil
}

// Publish sends a settings update to the devices listening on prefix.
func Publish(nc *nats.Conn, prefix string, tuples []settings.Tuple) error {
	data, err := EncodeJSON(tuples)
	if err != nil {
		return err
	}
	subject, _ := Subjects(prefix)
	if err := nc.Publish(subject, data); err != nil {
		return fmt.Errorf("remote: publish %s: %w", subject, err)
	}
	return nc.Flush()
}
