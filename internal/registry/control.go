package registry

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/gv2mqtt/internal/lockout"
)

// ControlSession is the handle returned by AcquireControl. The holder must
// call Release exactly once when the operation, including its wire round
// trip, has completed.
type ControlSession struct {
	release func()
	once    sync.Once
}

// Release frees the per-device control slot. If AcquireControl was given a
// poll function, it fires after the configured delay — scheduling a
// follow-up status read once the device has had time to react, the same
// way the original bridge's control handle scheduled a trigger poll on
// release.
func (s *ControlSession) Release() {
	s.once.Do(s.release)
}

// AcquireControl serializes control operations against a single device: at
// most one command is in flight per device at a time, so a multi-step
// operation (e.g. a scene activation composed of several capability
// writes) can't interleave with a concurrent caller's command and leave
// the device in an inconsistent state.
func (r *Registry) AcquireControl(ctx context.Context, deviceID string, pollDelay time.Duration, poll func()) (*ControlSession, error) {
	sem := r.semaphoreFor(deviceID)

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &ControlSession{release: func() {
		<-sem
		if poll != nil {
			time.AfterFunc(pollDelay, poll)
		}
	}}, nil
}

func (r *Registry) semaphoreFor(deviceID string) chan struct{} {
	r.semMu.Lock()
	defer r.semMu.Unlock()

	sem, ok := r.semaphores[deviceID]
	if !ok {
		sem = make(chan struct{}, 1)
		r.semaphores[deviceID] = sem
	}
	return sem
}

// ControlAttempt packages, for one control operation, the closures that
// perform it over each transport the target device actually supports. A
// nil closure means the device does not support that transport for this
// operation.
type ControlAttempt struct {
	IoTControllable, LANControllable bool
	IoT, LAN, Platform               func(ctx context.Context) error
}

// ExecuteControl runs a control operation under the transport selection
// policy: prefer cloud-IoT when the device is IoT-controllable, else LAN
// when it is LAN-controllable, else platform REST. A cloud attempt that
// fails with a classified-recoverable error records a lockout and falls
// back to LAN once rather than surfacing the failure to the caller; if a
// lockout is already active the cloud attempt is skipped in favor of LAN
// outright. ErrDegraded is returned only when no transport is left to try.
func ExecuteControl(ctx context.Context, lo *lockout.Controller, attempt ControlAttempt) error {
	var primary func(ctx context.Context) error
	var cloud bool

	switch {
	case attempt.IoTControllable && attempt.IoT != nil:
		primary = attempt.IoT
		cloud = true
	case attempt.LANControllable && attempt.LAN != nil:
		primary = attempt.LAN
	case attempt.Platform != nil:
		primary = attempt.Platform
		cloud = true
	default:
		return ErrDegraded
	}

	if !cloud {
		return primary(ctx)
	}

	if !lo.ShouldAttempt() {
		if attempt.LAN != nil {
			return attempt.LAN(ctx)
		}
		return ErrDegraded
	}

	err := primary(ctx)
	if err == nil {
		return lo.Clear()
	}
	if lockout.IsRecoverable(err) {
		if _, rerr := lo.Record(err); rerr != nil {
			return rerr
		}
		if attempt.LAN != nil {
			return attempt.LAN(ctx)
		}
		return ErrDegraded
	}
	return err
}
