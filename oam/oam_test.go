// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package oam

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"msc/context"
	"msc/gsm48"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter()
}

func resetNet() *context.MSC {
	net := context.MSC_Self()
	net.Subscribers = context.NewMemDirectory()
	net.Transactions.Range(func(k, _ interface{}) bool {
		net.Transactions.Delete(k)
		return true
	})
	return net
}

func doGET(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	resetNet()
	rec := doGET(t, testRouter(), "/msc-oam/v1/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "Hello World!" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestSubscriberList(t *testing.T) {
	net := resetNet()
	a := net.Subscribers.CreateByIMSI("262420000000030")
	a.Extension = "100"
	a.Attached = true
	a.LAC = 1
	b := net.Subscribers.CreateByIMSI("262420000000031")
	b.TMSI = 0x1234abcd

	rec := doGET(t, testRouter(), "/msc-oam/v1/subscribers")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var out []SubscriberInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("%d subscribers, want 2", len(out))
	}
	byIMSI := map[string]SubscriberInfo{}
	for _, s := range out {
		byIMSI[s.IMSI] = s
	}
	got, ok := byIMSI["262420000000030"]
	if !ok {
		t.Fatal("first subscriber missing")
	}
	if got.Extension != "100" || !got.Attached || got.LAC != 1 {
		t.Errorf("subscriber = %+v", got)
	}
	if byIMSI["262420000000031"].TMSI != "0x1234abcd" {
		t.Errorf("tmsi = %q", byIMSI["262420000000031"].TMSI)
	}
}

func TestSubscriberByIMSI(t *testing.T) {
	net := resetNet()
	s := net.Subscribers.CreateByIMSI("262420000000032")
	s.Name = "alice"
	s.Equipment.IMEI = "490154203237518"

	router := testRouter()
	rec := doGET(t, router, "/msc-oam/v1/subscribers/262420000000032")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got SubscriberInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Name != "alice" || got.IMEI != "490154203237518" {
		t.Errorf("subscriber = %+v", got)
	}

	rec = doGET(t, router, "/msc-oam/v1/subscribers/999990000000000")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d for unknown imsi", rec.Code)
	}
}

func TestActiveCalls(t *testing.T) {
	net := resetNet()
	s := net.Subscribers.CreateByIMSI("262420000000033")
	s.Extension = "200"
	trans := net.NewTransaction(s, gsm48.PDiscCC, 0x8, 0x80000042)
	defer trans.Free()

	rec := doGET(t, testRouter(), "/msc-oam/v1/active-calls")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []ActiveCallInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("%d calls, want 1", len(out))
	}
	got := out[0]
	if got.Callref != "0x80000042" || got.TransactionID != 0x8 {
		t.Errorf("call = %+v", got)
	}
	if got.State != "NULL" || got.Subscriber != "200" {
		t.Errorf("call = %+v", got)
	}
	if !got.Paging {
		t.Error("transaction without a connection must show as paging")
	}
}
