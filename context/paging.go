// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package context

import "msc/logger"

// StartPaging records the callback and triggers the page on the first
// request for a subscriber. Further requests just queue their callback.
func (net *MSC) StartPaging(s *Subscriber, cb PagingCallback) error {
	if net.pagingWaiters == nil {
		net.pagingWaiters = make(map[*Subscriber][]PagingCallback)
	}
	waiting := net.pagingWaiters[s]
	net.pagingWaiters[s] = append(waiting, cb)
	if len(waiting) > 0 {
		return nil
	}
	if net.Pager == nil {
		delete(net.pagingWaiters, s)
		return ErrConnClosed
	}
	logger.PagingLog.Infof("paging subscriber %s", s.Label())
	if err := net.Pager.PageSubscriber(s); err != nil {
		delete(net.pagingWaiters, s)
		return err
	}
	return nil
}

// PagingSucceeded fires the queued callbacks with the connection the
// subscriber answered on.
func (net *MSC) PagingSucceeded(s *Subscriber, conn *SignalingConn) {
	waiting := net.pagingWaiters[s]
	delete(net.pagingWaiters, s)
	logger.PagingLog.Infof("paging response from %s (%d waiter(s))", s.Label(), len(waiting))
	for _, cb := range waiting {
		cb(PagingSucceeded, conn)
	}
}

// PagingFailed fires the queued callbacks with no connection.
func (net *MSC) PagingFailed(s *Subscriber, result PagingResult) {
	waiting := net.pagingWaiters[s]
	delete(net.pagingWaiters, s)
	logger.PagingLog.Infof("paging for %s failed (%d waiter(s))", s.Label(), len(waiting))
	for _, cb := range waiting {
		cb(result, nil)
	}
}
