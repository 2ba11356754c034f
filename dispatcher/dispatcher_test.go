// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package dispatcher

import (
	"errors"
	"testing"

	"msc/context"
	"msc/gsm48"
	"msc/mncc"
)

type fakeLink struct {
	sent     [][]byte
	released bool
}

func (l *fakeLink) Send(l3 []byte) error {
	l.sent = append(l.sent, append([]byte(nil), l3...))
	return nil
}

func (l *fakeLink) StartCiphering(alg uint8, kc [8]byte) error { return nil }

func (l *fakeLink) Release() { l.released = true }

func newTestNet() *context.MSC {
	return &context.MSC{Subscribers: context.NewMemDirectory()}
}

func TestReceiveTooShort(t *testing.T) {
	net := newTestNet()
	conn := NewConnection(net, &fakeLink{})
	defer func() {
		net.Lock()
		conn.ReleaseAnchor()
		net.Unlock()
	}()

	if err := Receive(conn, []byte{gsm48.PDiscMM}); !errors.Is(err, gsm48.ErrTooShort) {
		t.Errorf("err = %v, want too short", err)
	}
}

func TestReceiveUnsupportedDiscriminators(t *testing.T) {
	tests := []struct {
		name  string
		pdisc uint8
	}{
		{"sms", gsm48.PDiscSMS},
		{"ncss", gsm48.PDiscNCSS},
		{"mm gprs", gsm48.PDiscMMGPRS},
		{"sm gprs", gsm48.PDiscSMGPRS},
		{"test", gsm48.PDiscTest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := newTestNet()
			conn := NewConnection(net, &fakeLink{})
			defer func() {
				net.Lock()
				conn.ReleaseAnchor()
				net.Unlock()
			}()

			err := Receive(conn, []byte{tt.pdisc, 0x00})
			if !errors.Is(err, ErrNotSupported) {
				t.Errorf("err = %v, want not supported", err)
			}
		})
	}
}

func TestReceiveUnknownDiscriminator(t *testing.T) {
	net := newTestNet()
	conn := NewConnection(net, &fakeLink{})
	defer func() {
		net.Lock()
		conn.ReleaseAnchor()
		net.Unlock()
	}()

	if err := Receive(conn, []byte{0x0d, 0x00}); !errors.Is(err, gsm48.ErrBadIE) {
		t.Errorf("err = %v, want bad information element", err)
	}
}

func TestReceiveOnClosedConnection(t *testing.T) {
	net := newTestNet()
	link := &fakeLink{}
	conn := NewConnection(net, link)

	net.Lock()
	conn.ReleaseAnchor()
	net.Unlock()
	if !conn.Closed() {
		t.Fatal("connection not closed after losing its last reference")
	}
	if !link.released {
		t.Fatal("link not released")
	}

	err := Receive(conn, []byte{gsm48.PDiscMM, 0x00})
	if !errors.Is(err, context.ErrConnClosed) {
		t.Errorf("err = %v, want connection closed", err)
	}
}

func TestReceiveCallControlWithoutSubscriber(t *testing.T) {
	net := newTestNet()
	conn := NewConnection(net, &fakeLink{})

	err := Receive(conn, []byte{gsm48.PDiscCC, gsm48.MTCCSetup})
	if !errors.Is(err, context.ErrConnClosed) {
		t.Errorf("err = %v, want connection closed", err)
	}
	// the anchor is dropped either way
	if !conn.Closed() {
		t.Error("connection still open")
	}
}

func TestReceiveCallControlKeepsConnection(t *testing.T) {
	net := newTestNet()
	var events []mncc.Event
	net.Backend = func(ev *mncc.Event) { events = append(events, *ev) }

	subscr := net.Subscribers.CreateByIMSI("262420000000020")
	subscr.Extension = "100"
	conn := NewConnection(net, &fakeLink{})
	conn.Subscriber = subscr

	if err := Receive(conn, []byte{gsm48.PDiscCC, gsm48.MTCCSetup}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(events) != 1 || events[0].Type != mncc.SetupInd {
		t.Fatalf("events = %v, want setup indication", events)
	}
	// the setup transaction keeps the connection alive past the anchor
	if conn.Closed() {
		t.Error("connection closed while a call is up")
	}
}

func TestCloseConnectionReleasesCalls(t *testing.T) {
	net := newTestNet()
	var events []mncc.Event
	net.Backend = func(ev *mncc.Event) { events = append(events, *ev) }

	subscr := net.Subscribers.CreateByIMSI("262420000000021")
	link := &fakeLink{}
	conn := NewConnection(net, link)
	conn.Subscriber = subscr

	net.Lock()
	trans := net.NewTransaction(subscr, gsm48.PDiscCC, 0x8, net.NextCallref())
	trans.SetConn(conn)
	callref := trans.Callref
	net.Unlock()

	CloseConnection(conn)

	if len(events) != 1 || events[0].Type != mncc.RelInd {
		t.Fatalf("events = %v, want release indication", events)
	}
	if events[0].Callref != callref {
		t.Errorf("callref = 0x%x, want 0x%x", events[0].Callref, callref)
	}
	if net.TransFindByCallref(callref) != nil {
		t.Error("transaction still registered")
	}
	if !conn.Closed() || !link.released {
		t.Error("connection not torn down")
	}

	// closing again is a no-op
	CloseConnection(conn)
	if len(events) != 1 {
		t.Errorf("%d events after double close", len(events))
	}
}

func TestFromBackendRoutesToCallControl(t *testing.T) {
	net := newTestNet()
	var events []mncc.Event
	net.Backend = func(ev *mncc.Event) { events = append(events, *ev) }

	if err := FromBackend(net, &mncc.Event{Type: mncc.AlertReq, Callref: 0x42}); err != nil {
		t.Fatalf("FromBackend: %v", err)
	}
	if len(events) != 1 || events[0].Type != mncc.RelInd {
		t.Fatalf("events = %v, want release for the unknown callref", events)
	}
}

type stubPager struct{ paged int }

func (p *stubPager) PageSubscriber(s *context.Subscriber) error {
	p.paged++
	return nil
}

func TestPagingFailedFansOut(t *testing.T) {
	net := newTestNet()
	net.Pager = &stubPager{}
	subscr := net.Subscribers.CreateByIMSI("262420000000022")

	var results []context.PagingResult
	net.Lock()
	err := net.StartPaging(subscr, func(result context.PagingResult, conn *context.SignalingConn) {
		results = append(results, result)
	})
	net.Unlock()
	if err != nil {
		t.Fatalf("StartPaging: %v", err)
	}

	PagingFailed(net, subscr, context.PagingExpired)
	if len(results) != 1 || results[0] != context.PagingExpired {
		t.Errorf("results = %v, want one expiry", results)
	}
}
