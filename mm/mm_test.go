// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package mm

import (
	"bytes"
	"regexp"
	"testing"

	"msc/context"
	"msc/gsm48"
)

type fakeLink struct {
	sent     [][]byte
	ciphered bool
	released bool
}

func (l *fakeLink) Send(l3 []byte) error {
	l.sent = append(l.sent, append([]byte(nil), l3...))
	return nil
}

func (l *fakeLink) StartCiphering(alg uint8, kc [8]byte) error {
	l.ciphered = true
	return nil
}

func (l *fakeLink) Release() { l.released = true }

func (l *fakeLink) last() []byte {
	if len(l.sent) == 0 {
		return nil
	}
	return l.sent[len(l.sent)-1]
}

// classmark 2 advertising A5/1 support
var testClassmark2 = []byte{0x33, 0x19, 0xa0}

type pagerFunc func(s *context.Subscriber) error

func (f pagerFunc) PageSubscriber(s *context.Subscriber) error { return f(s) }

func mustRegexp(t *testing.T, expr string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(expr)
	if err != nil {
		t.Fatalf("compile %q: %v", expr, err)
	}
	return re
}

func resetNet() *context.MSC {
	net := context.MSC_Self()
	net.MCC = "262"
	net.MNC = "42"
	net.LAC = 1
	net.Policy = context.AuthPolicyAcceptAll
	net.AuthorizedRegexp = nil
	net.AutoCreate = false
	net.RejectCause = gsm48.RejectRoamingNotAllowed
	net.Encryption = 0
	net.AvoidTMSI = true
	net.SendMMInfo = false
	net.Subscribers = context.NewMemDirectory()
	net.AuthTuples = nil
	return net
}

func buildLocUpdRequest(t *testing.T, luType, keySeq uint8, mi []byte) []byte {
	t.Helper()
	raw := []byte{gsm48.PDiscMM, gsm48.MTMMLocUpdRequest}
	raw = append(raw, keySeq<<4|luType)
	raw = append(raw, 0x62, 0xf2, 0x24, 0x00, 0x01) // LAI
	raw = append(raw, 0x33)                         // classmark 1
	raw = append(raw, uint8(len(mi)))
	return append(raw, mi...)
}

func imsiMI(t *testing.T, imsi string) []byte {
	t.Helper()
	mi, err := gsm48.EncodeMobileIdentityIMSI(imsi)
	if err != nil {
		t.Fatalf("encode IMSI: %v", err)
	}
	return mi
}

func identityResponse(mi []byte) []byte {
	raw := []byte{gsm48.PDiscMM, gsm48.MTMMIdentityResponse, uint8(len(mi))}
	return append(raw, mi...)
}

func cmServiceRequest(servType, keySeq uint8, mi []byte) []byte {
	raw := []byte{gsm48.PDiscMM, gsm48.MTMMCMServiceRequest, keySeq<<4 | servType}
	raw = append(raw, uint8(len(testClassmark2)))
	raw = append(raw, testClassmark2...)
	raw = append(raw, uint8(len(mi)))
	return append(raw, mi...)
}

func TestLocationUpdatingAccepted(t *testing.T) {
	net := resetNet()
	subscr := net.Subscribers.CreateByIMSI("262420000000001")
	link := &fakeLink{}
	conn := net.NewConn(link)

	raw := buildLocUpdRequest(t, gsm48.LUTypeAttach, 0, imsiMI(t, subscr.IMSI))
	if err := Receive(conn, raw); err != nil {
		t.Fatalf("Receive LU request: %v", err)
	}

	// the IMEI is always asked for, the accept waits on the answer
	if len(link.sent) != 1 || link.last()[1] != gsm48.MTMMIdentityRequest {
		t.Fatalf("expected only an identity request, got %d messages", len(link.sent))
	}
	if subscr.Attached {
		t.Fatal("subscriber attached before identity response")
	}

	imei := imsiMI(t, "490154203237518")
	imei[0] = imei[0]&^gsm48.MITypeMask | gsm48.MITypeIMEI
	if err := Receive(conn, identityResponse(imei)); err != nil {
		t.Fatalf("Receive identity response: %v", err)
	}

	accept := link.last()
	if accept[1] != gsm48.MTMMLocUpdAccept {
		t.Fatalf("last message type 0x%02x, want accept", accept[1])
	}
	if !bytes.Equal(accept[2:7], gsm48.EncodeLAI(net.MCC, net.MNC, net.LAC)) {
		t.Errorf("accept LAI = % x", accept[2:7])
	}
	if !subscr.Attached {
		t.Error("subscriber not attached")
	}
	if subscr.LAC != net.LAC {
		t.Errorf("subscriber LAC = %d, want %d", subscr.LAC, net.LAC)
	}
	if subscr.Equipment.IMEI != "490154203237518" {
		t.Errorf("IMEI = %s", subscr.Equipment.IMEI)
	}
	if conn.Loc != nil {
		t.Error("location updating operation still open")
	}
}

func TestLocationUpdatingRejectUnknown(t *testing.T) {
	net := resetNet()
	link := &fakeLink{}
	conn := net.NewConn(link)

	raw := buildLocUpdRequest(t, gsm48.LUTypeNormal, 0, imsiMI(t, "262429999999999"))
	if err := Receive(conn, raw); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	reject := link.last()
	if reject[1] != gsm48.MTMMLocUpdReject {
		t.Fatalf("last message type 0x%02x, want reject", reject[1])
	}
	if reject[2] != net.RejectCause {
		t.Errorf("reject cause = %d, want %d", reject[2], net.RejectCause)
	}
	if conn.Loc != nil {
		t.Error("failed procedure left the operation open")
	}
}

func TestLocationUpdatingConcurrentRejected(t *testing.T) {
	net := resetNet()
	subscr := net.Subscribers.CreateByIMSI("262420000000002")
	link := &fakeLink{}
	conn := net.NewConn(link)

	raw := buildLocUpdRequest(t, gsm48.LUTypeNormal, 0, imsiMI(t, subscr.IMSI))
	if err := Receive(conn, raw); err != nil {
		t.Fatalf("first request: %v", err)
	}
	loc := conn.Loc
	if loc == nil {
		t.Fatal("no operation allocated")
	}

	if err := Receive(conn, raw); err != nil {
		t.Fatalf("second request: %v", err)
	}
	reject := link.last()
	if reject[1] != gsm48.MTMMLocUpdReject || reject[2] != gsm48.RejectProtocolError {
		t.Errorf("concurrent request not rejected with protocol error: % x", reject)
	}
	if conn.Loc != loc {
		t.Error("original procedure was replaced")
	}
	loc.RejectTimer.Stop()
}

func TestLocationUpdatingEquipmentIdentityRejected(t *testing.T) {
	net := resetNet()
	link := &fakeLink{}
	conn := net.NewConn(link)

	imei := imsiMI(t, "490154203237518")
	imei[0] = imei[0]&^gsm48.MITypeMask | gsm48.MITypeIMEI
	if err := Receive(conn, buildLocUpdRequest(t, gsm48.LUTypeNormal, 0, imei)); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	reject := link.last()
	if reject[1] != gsm48.MTMMLocUpdReject || reject[2] != gsm48.RejectProtocolError {
		t.Errorf("IMEI-keyed update not rejected: % x", reject)
	}
	_ = net
}

func TestCMServiceRequestUnknownSubscriber(t *testing.T) {
	net := resetNet()
	link := &fakeLink{}
	conn := net.NewConn(link)
	_ = net

	mi := gsm48.EncodeMobileIdentityTMSI(0xdeadbeef)
	if err := Receive(conn, cmServiceRequest(gsm48.CMServMOCall, 0, mi)); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	reject := link.last()
	if reject[1] != gsm48.MTMMCMServiceReject {
		t.Fatalf("last message type 0x%02x, want service reject", reject[1])
	}
	if reject[2] != gsm48.RejectIMSIUnknownInVLR {
		t.Errorf("cause = %d, want IMSI unknown in VLR", reject[2])
	}
}

func TestCMServiceRequestAcceptedWithoutCiphering(t *testing.T) {
	net := resetNet()
	subscr := net.Subscribers.CreateByIMSI("262420000000003")
	subscr.TMSI = 0x00010001
	link := &fakeLink{}
	conn := net.NewConn(link)

	mi := gsm48.EncodeMobileIdentityTMSI(subscr.TMSI)
	if err := Receive(conn, cmServiceRequest(gsm48.CMServMOCall, 0, mi)); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if link.last()[1] != gsm48.MTMMCMServiceAccept {
		t.Fatalf("last message type 0x%02x, want service accept", link.last()[1])
	}
	if conn.Subscriber != subscr {
		t.Error("connection not bound to the subscriber")
	}
	if !subscr.Attached {
		t.Error("implicit attach did not happen")
	}
	if !bytes.Equal(subscr.Equipment.Classmark2, testClassmark2) {
		t.Error("classmark 2 not stored")
	}
}

func newTestTuple() context.AuthTuple {
	var tuple context.AuthTuple
	for i := range tuple.RAND {
		tuple.RAND[i] = byte(0xa0 + i)
	}
	tuple.SRES = [4]byte{0x01, 0x02, 0x03, 0x04}
	tuple.Kc = [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	return tuple
}

type fakeAuth struct {
	tuple context.AuthTuple
}

func (a *fakeAuth) TupleFor(s *context.Subscriber, keySeq int) (context.AuthAction, *context.AuthTuple) {
	t := a.tuple
	return context.AuthDoAuthThenCiph, &t
}

func startAuthenticatedService(t *testing.T) (*context.MSC, *context.Subscriber, *fakeLink, *context.SignalingConn, context.AuthTuple) {
	t.Helper()
	net := resetNet()
	net.Encryption = 1
	tuple := newTestTuple()
	net.AuthTuples = &fakeAuth{tuple: tuple}

	subscr := net.Subscribers.CreateByIMSI("262420000000004")
	link := &fakeLink{}
	conn := net.NewConn(link)

	if err := Receive(conn, cmServiceRequest(gsm48.CMServMOCall, 0, imsiMI(t, subscr.IMSI))); err != nil {
		t.Fatalf("Receive service request: %v", err)
	}

	req := link.last()
	if req[1] != gsm48.MTMMAuthRequest {
		t.Fatalf("last message type 0x%02x, want authentication request", req[1])
	}
	// the challenge is the tuple's RAND, nothing else
	if !bytes.Equal(req[3:19], tuple.RAND[:]) {
		t.Fatalf("challenge = % x, want tuple RAND", req[3:19])
	}
	return net, subscr, link, conn, tuple
}

func TestAuthenticationSucceeds(t *testing.T) {
	_, subscr, link, conn, tuple := startAuthenticatedService(t)

	resp := append([]byte{gsm48.PDiscMM, gsm48.MTMMAuthResponse}, tuple.SRES[:]...)
	if err := Receive(conn, resp); err != nil {
		t.Fatalf("Receive auth response: %v", err)
	}
	if !link.ciphered {
		t.Fatal("ciphering not started after valid response")
	}

	CipheringComplete(conn)
	if !conn.Ciphered {
		t.Error("connection not marked ciphered")
	}
	if !subscr.Attached {
		t.Error("implicit attach did not happen")
	}
	if conn.Sec != nil {
		t.Error("security operation still open")
	}
	// cipher mode command doubles as the accept
	for _, msg := range link.sent {
		if msg[1] == gsm48.MTMMCMServiceAccept {
			t.Error("explicit service accept sent on ciphered path")
		}
	}
}

func TestAuthenticationWrongResponse(t *testing.T) {
	_, _, link, conn, _ := startAuthenticatedService(t)

	resp := []byte{gsm48.PDiscMM, gsm48.MTMMAuthResponse, 0xff, 0xff, 0xff, 0xff}
	if err := Receive(conn, resp); err != nil {
		t.Fatalf("Receive auth response: %v", err)
	}
	if link.ciphered {
		t.Fatal("ciphering started after invalid response")
	}
	if link.last()[1] != gsm48.MTMMAuthReject {
		t.Fatalf("last message type 0x%02x, want authentication reject", link.last()[1])
	}
	if conn.Sec != nil {
		t.Error("security operation still open")
	}
}

func TestAuthenticationResponseReplayedAfterTeardown(t *testing.T) {
	_, _, link, conn, _ := startAuthenticatedService(t)

	resp := []byte{gsm48.PDiscMM, gsm48.MTMMAuthResponse, 0xff, 0xff, 0xff, 0xff}
	if err := Receive(conn, resp); err != nil {
		t.Fatalf("Receive auth response: %v", err)
	}
	if conn.Sec != nil {
		t.Fatal("security operation still open after mismatch")
	}
	sent := len(link.sent)

	// the identical response again, with no operation in progress
	if err := Receive(conn, resp); err != nil {
		t.Fatalf("Receive replayed auth response: %v", err)
	}
	if len(link.sent) != sent {
		t.Errorf("%d new messages for a stale response", len(link.sent)-sent)
	}
	if conn.Sec != nil {
		t.Error("stale response opened a security operation")
	}
	if link.ciphered {
		t.Error("ciphering started from a stale response")
	}
}

func TestCMServiceRequestWhileAuthenticationPending(t *testing.T) {
	_, subscr, link, conn, _ := startAuthenticatedService(t)
	pending := conn.Sec
	if pending == nil {
		t.Fatal("no security operation after the first request")
	}

	if err := Receive(conn, cmServiceRequest(gsm48.CMServMOCall, 0, imsiMI(t, subscr.IMSI))); err != nil {
		t.Fatalf("Receive second service request: %v", err)
	}
	rej := link.last()
	if rej[1] != gsm48.MTMMCMServiceReject {
		t.Fatalf("last message type 0x%02x, want service reject", rej[1])
	}
	if rej[2] != gsm48.RejectCongestion {
		t.Errorf("reject cause = %d, want congestion", rej[2])
	}
	if conn.Sec != pending {
		t.Error("pending security operation displaced")
	}
}

func TestAuthenticationSynchFailureRejected(t *testing.T) {
	_, _, link, conn, _ := startAuthenticatedService(t)

	fail := []byte{gsm48.PDiscMM, gsm48.MTMMAuthFailure, 21, gsm48.IEAuts, 14}
	fail = append(fail, make([]byte, 14)...)
	if err := Receive(conn, fail); err != nil {
		t.Fatalf("Receive auth failure: %v", err)
	}
	if link.last()[1] != gsm48.MTMMAuthReject {
		t.Fatalf("last message type 0x%02x, want authentication reject", link.last()[1])
	}
}

func TestIMSIDetach(t *testing.T) {
	net := resetNet()
	subscr := net.Subscribers.CreateByIMSI("262420000000005")
	net.Subscribers.Attach(subscr)
	link := &fakeLink{}
	conn := net.NewConn(link)

	mi := imsiMI(t, subscr.IMSI)
	raw := []byte{gsm48.PDiscMM, gsm48.MTMMImsiDetachInd, 0x33, uint8(len(mi))}
	raw = append(raw, mi...)
	if err := Receive(conn, raw); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if subscr.Attached {
		t.Error("subscriber still attached")
	}
	if len(link.sent) != 0 {
		t.Error("detach indication was answered")
	}
	if !conn.Closed() {
		t.Error("connection not torn down after detach")
	}
}

func TestPagingResponseWakesWaiter(t *testing.T) {
	net := resetNet()
	subscr := net.Subscribers.CreateByIMSI("262420000000006")
	subscr.TMSI = 0x00020002

	net.Pager = pagerFunc(func(s *context.Subscriber) error { return nil })
	var gotConn *context.SignalingConn
	err := net.StartPaging(subscr, func(result context.PagingResult, conn *context.SignalingConn) {
		if result == context.PagingSucceeded {
			gotConn = conn
		}
	})
	if err != nil {
		t.Fatalf("StartPaging: %v", err)
	}

	link := &fakeLink{}
	conn := net.NewConn(link)
	mi := gsm48.EncodeMobileIdentityTMSI(subscr.TMSI)
	raw := []byte{gsm48.PDiscRR, gsm48.MTRRPagingResponse, 0x00, uint8(len(testClassmark2))}
	raw = append(raw, testClassmark2...)
	raw = append(raw, uint8(len(mi)))
	raw = append(raw, mi...)

	if err := ReceiveRR(conn, raw); err != nil {
		t.Fatalf("ReceiveRR: %v", err)
	}
	if gotConn != conn {
		t.Error("paging waiter not woken with the answering connection")
	}
	if conn.Subscriber != subscr {
		t.Error("connection not bound to the paged subscriber")
	}
}

func TestAuthorizePolicies(t *testing.T) {
	net := resetNet()
	subscr := &context.Subscriber{IMSI: "262421110000001"}

	tests := []struct {
		name       string
		policy     context.AuthPolicy
		authorized bool
		first      bool
		want       bool
	}{
		{"closed denies", context.AuthPolicyClosed, false, false, false},
		{"closed allows flagged", context.AuthPolicyClosed, true, false, true},
		{"accept-all", context.AuthPolicyAcceptAll, false, false, true},
		{"token first contact", context.AuthPolicyToken, false, true, true},
		{"token later contact", context.AuthPolicyToken, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net.Policy = tt.policy
			subscr.Authorized = tt.authorized
			subscr.FirstContact = tt.first
			if got := authorizeSubscriber(nil, subscr); got != tt.want {
				t.Errorf("authorize = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("regexp match authorizes permanently", func(t *testing.T) {
		net.Policy = context.AuthPolicyRegexp
		net.AuthorizedRegexp = mustRegexp(t, "^26242")
		subscr.Authorized = false
		if !authorizeSubscriber(nil, subscr) {
			t.Fatal("matching IMSI not authorized")
		}
		if !subscr.Authorized {
			t.Error("authorization not persisted")
		}
	})

	t.Run("pending identity defers", func(t *testing.T) {
		net.Policy = context.AuthPolicyAcceptAll
		loc := &context.LocUpdOperation{WaitingForIMEI: true}
		if authorizeSubscriber(loc, subscr) {
			t.Error("authorized while identity outstanding")
		}
	})
}
