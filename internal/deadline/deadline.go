// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package deadline implements the watchdog timer that protects every
// blocking engine operation. A worker arms its deadline before waiting
// on an engine and clears it when the engine responds; the main thread
// polls all deadlines and treats an armed deadline in the past as a
// fatal, unresponsive engine.
package deadline

import (
	"sync"
	"time"
)

// Deadline is one worker's watchdog slot. It borrows the name of the
// engine currently mid-operation: the reference is taken on Set and
// dropped on Clear, so the deadline never owns an engine.
type Deadline struct {
	mu sync.Mutex

	engine  string
	expires time.Time
	armed   bool
}

// Set arms the deadline: engine must respond before the expiry time.
func (d *Deadline) Set(engine string, expires time.Time) {
	d.mu.Lock()
	d.engine = engine
	d.expires = expires
	d.armed = true
	d.mu.Unlock()
}

// Clear disarms the deadline after the engine responded in time.
func (d *Deadline) Clear() {
	d.mu.Lock()
	d.armed = false
	d.mu.Unlock()
}

// Overdue reports whether the deadline is armed and expired, and if so
// by how much and for which engine.
func (d *Deadline) Overdue(now time.Time) (engine string, late time.Duration, overdue bool) {
	d.mu.Lock()
	armed, engine, expires := d.armed, d.engine, d.expires
	d.mu.Unlock()

	if !armed || !now.After(expires) {
		return "", 0, false
	}
	return engine, now.Sub(expires), true
}
