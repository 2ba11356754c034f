// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package context

import (
	"sync/atomic"
	"time"
)

// Timer fires expiredFunc on every expiry until maxRetryTimes is reached,
// then calls maxRetryFunc and stops. Stop cancels it and, if set, invokes
// cancelFunc with the retries that were left.
type Timer struct {
	done    chan struct{}
	stopped int32
}

func NewTimer(d time.Duration, maxRetryTimes int,
	expiredFunc func(expireTimes int32), maxRetryFunc func()) *Timer {
	t := &Timer{
		done: make(chan struct{}),
	}
	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		var expireTimes int32
		for {
			select {
			case <-t.done:
				return
			case <-timer.C:
				expireTimes++
				if expiredFunc != nil {
					expiredFunc(expireTimes)
				}
				if expireTimes >= int32(maxRetryTimes) {
					if maxRetryFunc != nil {
						maxRetryFunc()
					}
					return
				}
				timer.Reset(d)
			}
		}
	}()
	return t
}

// NewSingleTimer arms a one-shot timer.
func NewSingleTimer(d time.Duration, expiredFunc func()) *Timer {
	return NewTimer(d, 1, func(int32) {
		if expiredFunc != nil {
			expiredFunc()
		}
	}, nil)
}

func (t *Timer) Stop() {
	if atomic.CompareAndSwapInt32(&t.stopped, 0, 1) {
		close(t.done)
	}
}
