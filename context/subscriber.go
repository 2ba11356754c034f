// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package context

import (
	"sync"

	"msc/logger"
)

const TmsiInvalid uint32 = 0xffffffff

type Equipment struct {
	IMEI       string
	IMEISV     string
	Classmark1 uint8
	Classmark2 []byte
	Classmark3 []byte
}

type Subscriber struct {
	IMSI      string
	TMSI      uint32
	Extension string
	Name      string

	Authorized   bool
	Attached     bool
	FirstContact bool
	LAC          uint16

	Equipment Equipment
}

func (s *Subscriber) HasTMSI() bool {
	return s.TMSI != TmsiInvalid
}

// Label picks the most useful identity for log lines.
func (s *Subscriber) Label() string {
	if s == nil {
		return "-"
	}
	if s.Extension != "" {
		return s.Extension
	}
	return s.IMSI
}

// SubscriberDirectory is the home-register collaborator. Lookups return nil
// when the subscriber is unknown.
type SubscriberDirectory interface {
	ByIMSI(imsi string) *Subscriber
	CreateByIMSI(imsi string) *Subscriber
	ByTMSI(tmsi uint32) *Subscriber
	ByExtension(ext string) *Subscriber
	Attach(s *Subscriber)
	Detach(s *Subscriber)
	UpdateEquipment(s *Subscriber)
	All() []*Subscriber
}

// MemDirectory is the in-process SubscriberDirectory used when no external
// register is wired in.
type MemDirectory struct {
	mu     sync.RWMutex
	byIMSI map[string]*Subscriber
}

func NewMemDirectory() *MemDirectory {
	return &MemDirectory{byIMSI: make(map[string]*Subscriber)}
}

func (d *MemDirectory) ByIMSI(imsi string) *Subscriber {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byIMSI[imsi]
}

func (d *MemDirectory) CreateByIMSI(imsi string) *Subscriber {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.byIMSI[imsi]; ok {
		return s
	}
	s := &Subscriber{
		IMSI:         imsi,
		TMSI:         TmsiInvalid,
		FirstContact: true,
	}
	d.byIMSI[imsi] = s
	logger.ContextLog.Infof("created subscriber for IMSI %s", imsi)
	return s
}

func (d *MemDirectory) ByTMSI(tmsi uint32) *Subscriber {
	if tmsi == TmsiInvalid {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.byIMSI {
		if s.TMSI == tmsi {
			return s
		}
	}
	return nil
}

func (d *MemDirectory) ByExtension(ext string) *Subscriber {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, s := range d.byIMSI {
		if s.Extension == ext {
			return s
		}
	}
	return nil
}

func (d *MemDirectory) Attach(s *Subscriber) {
	d.mu.Lock()
	s.Attached = true
	s.FirstContact = false
	d.mu.Unlock()
}

func (d *MemDirectory) Detach(s *Subscriber) {
	d.mu.Lock()
	s.Attached = false
	d.mu.Unlock()
}

func (d *MemDirectory) UpdateEquipment(s *Subscriber) {}

func (d *MemDirectory) All() []*Subscriber {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Subscriber, 0, len(d.byIMSI))
	for _, s := range d.byIMSI {
		out = append(out, s)
	}
	return out
}
