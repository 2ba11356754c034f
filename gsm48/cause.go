// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

// Cause is the 04.08 10.5.4.11 cause IE.
type Cause struct {
	Coding   uint8
	Location uint8
	Rec      bool
	RecVal   uint8
	Value    uint8
	Diag     []byte
}

// EncodeCause appends the cause value bytes. Tagged or bare framing is the
// caller's choice via PutTLV/PutLV.
func EncodeCauseValue(c *Cause) []byte {
	v := make([]byte, 0, 2+len(c.Diag))
	first := c.Coding<<5 | c.Location&0x0f
	if c.Rec {
		v = append(v, first, 0x80|c.RecVal&0x7f)
	} else {
		v = append(v, 0x80|first)
	}
	v = append(v, 0x80|c.Value&0x7f)
	v = append(v, c.Diag...)
	return v
}

func DecodeCause(lv []byte) (Cause, error) {
	var c Cause
	if len(lv) < 2 {
		return c, ErrTooShort
	}
	i := 0
	c.Coding = (lv[i] & 0x60) >> 5
	c.Location = lv[i] & 0x0f
	if lv[i]&0x80 == 0 {
		i++
		if i >= len(lv) {
			return c, ErrTooShort
		}
		c.Rec = true
		c.RecVal = lv[i] & 0x7f
	}
	i++
	if i >= len(lv) {
		return c, ErrTooShort
	}
	c.Value = lv[i] & 0x7f
	if i+1 < len(lv) {
		c.Diag = append([]byte(nil), lv[i+1:]...)
	}
	return c, nil
}
