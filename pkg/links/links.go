// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package links

import (
	"fmt"
	"strings"

	"github.com/nfvri/star-ris-simulator/pkg/channel"
	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var roles = map[string]bool{
	model.RoleCenter1:      true,
	model.RoleCenter2:      true,
	model.RoleFar:          true,
	model.RoleInterference: true,
	model.RoleRISFar:       true,
	model.RoleRISBlock1:    true,
	model.RoleRISBlock2:    true,
	model.RoleNoLink:       true,
}

// Key identifies a link by its ordered (transmitter, receiver) names
type Key struct {
	Tx string
	Rx string
}

// Link is a registered channel and its role
type Link struct {
	Channel *channel.Channel
	Role    string
}

// Recorder observes registry activity
type Recorder interface {
	LinkAdded(role string, realizations int)
	LinkUpdated(role string)
}

// Collection owns the channels of one simulation run, keyed by (tx, rx).
// It is not safe for concurrent mutation.
type Collection struct {
	size      int
	frequency float64
	streams   *channel.Streams
	links     map[Key]*Link
	order     []Key
	recorder  Recorder
}

// NewCollection creates a registry whose channels carry size realizations at frequency
func NewCollection(size int, frequency float64, streams *channel.Streams) (*Collection, error) {
	if size <= 0 {
		return nil, errors.New(errors.Invalid, "realization count must be positive, got %d", size)
	}
	if frequency <= 0 {
		return nil, errors.New(errors.Invalid, "frequency must be positive, got %v", frequency)
	}
	if streams == nil {
		return nil, errors.New(errors.Invalid, "link collection needs random streams")
	}
	return &Collection{
		size:      size,
		frequency: frequency,
		streams:   streams,
		links:     make(map[Key]*Link),
	}, nil
}

// SetRecorder attaches an observer of registry activity
func (c *Collection) SetRecorder(r Recorder) {
	c.recorder = r
}

func (c *Collection) Size() int {
	return c.size
}

func (c *Collection) Frequency() float64 {
	return c.frequency
}

func (c *Collection) Len() int {
	return len(c.links)
}

// AddLink draws the channel from tx to rx and files it under role. RIS sub-links take
// their row count from elements; every other role is a single-row channel.
func (c *Collection) AddLink(tx, rx model.Object, fadingCfg model.FadingConfig, pathlossCfg model.PathlossConfig, role string, elements int) error {
	if !roles[role] {
		return errors.New(errors.Invalid, "invalid link type %q", role)
	}
	key := Key{Tx: tx.GetName(), Rx: rx.GetName()}
	if _, ok := c.links[key]; ok {
		return errors.New(errors.AlreadyExists, "link %s -> %s already exists", key.Tx, key.Rx)
	}

	rows := 1
	if model.IsRISRole(role) {
		if tx.Kind() != model.KindSTAR && rx.Kind() != model.KindSTAR {
			return errors.New(errors.Invalid, "link %s -> %s of type %s must terminate on a STAR-RIS", key.Tx, key.Rx, role)
		}
		if elements <= 0 {
			return errors.New(errors.Invalid, "link %s -> %s of type %s needs a positive element count", key.Tx, key.Rx, role)
		}
		rows = elements
	}

	ch, err := channel.New(tx, rx, c.frequency, fadingCfg, pathlossCfg,
		channel.Shape{Rows: rows, Cols: c.size}, role == model.RoleNoLink, c.streams)
	if err != nil {
		return err
	}
	c.links[key] = &Link{Channel: ch, Role: role}
	c.order = append(c.order, key)
	if c.recorder != nil {
		c.recorder.LinkAdded(role, ch.Shape.Size())
	}
	log.Debugf("Added link %s -> %s (%s)", key.Tx, key.Rx, role)
	return nil
}

// Links returns the registered links in insertion order
func (c *Collection) Links() []*Link {
	out := make([]*Link, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.links[key])
	}
	return out
}

func (c *Collection) lookup(tx, rx model.Object) (*Link, error) {
	if l, ok := c.links[Key{Tx: tx.GetName(), Rx: rx.GetName()}]; ok {
		return l, nil
	}
	return nil, errors.New(errors.NotFound, "link %s -> %s not found", tx.GetName(), rx.GetName())
}

// GetLink returns the channel from tx to rx
func (c *Collection) GetLink(tx, rx model.Object) (*channel.Channel, error) {
	l, err := c.lookup(tx, rx)
	if err != nil {
		return nil, err
	}
	return l.Channel, nil
}

// GetGain returns |h| for every coefficient of the link
func (c *Collection) GetGain(tx, rx model.Object) ([]float64, error) {
	l, err := c.lookup(tx, rx)
	if err != nil {
		return nil, err
	}
	return l.Channel.Gain(), nil
}

// PowerGain returns |h|² for every coefficient of the link
func (c *Collection) PowerGain(tx, rx model.Object) ([]float64, error) {
	l, err := c.lookup(tx, rx)
	if err != nil {
		return nil, err
	}
	return l.Channel.PowerGain(), nil
}

func (c *Collection) GetLinkType(tx, rx model.Object) (string, error) {
	l, err := c.lookup(tx, rx)
	if err != nil {
		return "", err
	}
	return l.Role, nil
}

func (c *Collection) Distance(tx, rx model.Object) (float64, error) {
	l, err := c.lookup(tx, rx)
	if err != nil {
		return 0, err
	}
	return l.Channel.Distance, nil
}

// Angle returns the wrapped phase of every coefficient of the link
func (c *Collection) Angle(tx, rx model.Object) ([]float64, error) {
	l, err := c.lookup(tx, rx)
	if err != nil {
		return nil, err
	}
	return l.Channel.Angle(), nil
}

// UpdateLink folds value into the channel from tx to rx
func (c *Collection) UpdateLink(tx, rx model.Object, value []complex128) error {
	l, err := c.lookup(tx, rx)
	if err != nil {
		return err
	}
	if err := l.Channel.Update(value); err != nil {
		return err
	}
	if c.recorder != nil {
		c.recorder.LinkUpdated(l.Role)
	}
	return nil
}

func (c *Collection) String() string {
	var sb strings.Builder
	for _, key := range c.order {
		l := c.links[key]
		fmt.Fprintf(&sb, "%s -> %s | Type: (%s) | Shape: %v\n", key.Tx, key.Rx, l.Role, l.Channel.Shape)
	}
	return sb.String()
}
