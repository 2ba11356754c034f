// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

import "errors"

var (
	ErrTooShort  = errors.New("message too short")
	ErrBadIE     = errors.New("malformed information element")
	ErrBadDigits = errors.New("invalid digit string")
)

// HeaderLen is the size of the common L3 header: protocol discriminator
// plus transaction identifier in the first octet, message type in the
// second.
const HeaderLen = 2

func HdrPDisc(raw []byte) uint8 { return raw[0] & 0x0f }

// HdrTransID extracts the transaction identifier nibble.
func HdrTransID(raw []byte) uint8 { return raw[0] >> 4 }

// FlipTransID mirrors the direction bit, translating the sender's view of
// the identifier into the receiver's.
func FlipTransID(ti uint8) uint8 { return ti ^ 0x08 }

func HdrMsgType(raw []byte) uint8 { return raw[1] }

// HdrMsgTypeMM strips the MM send-sequence bits.
func HdrMsgTypeMM(raw []byte) uint8 { return raw[1] & 0xbf }

// Builder assembles an outbound L3 message. The header octets are placed
// first and may be restamped later when a transaction is attached.
type Builder struct {
	b []byte
}

func NewBuilder(pdisc, msgType uint8) *Builder {
	return &Builder{b: []byte{pdisc, msgType}}
}

// StampTransID writes the transaction identifier into the header.
func (m *Builder) StampTransID(ti uint8) {
	m.b[0] = (m.b[0] & 0x0f) | ti<<4
}

func (m *Builder) PutByte(v uint8) { m.b = append(m.b, v) }

func (m *Builder) Put(v []byte) { m.b = append(m.b, v...) }

// PutLV appends a length-prefixed value (mandatory IE without tag).
func (m *Builder) PutLV(v []byte) {
	m.b = append(m.b, uint8(len(v)))
	m.b = append(m.b, v...)
}

// PutTV appends a one-octet tagged value.
func (m *Builder) PutTV(tag, v uint8) {
	m.b = append(m.b, tag, v)
}

// PutT appends a tag-only flag IE.
func (m *Builder) PutT(tag uint8) {
	m.b = append(m.b, tag)
}

// PutTLV appends a tagged, length-prefixed value.
func (m *Builder) PutTLV(tag uint8, v []byte) {
	m.b = append(m.b, tag, uint8(len(v)))
	m.b = append(m.b, v...)
}

func (m *Builder) Bytes() []byte { return m.b }
