package main

import (
	"bytes"
	"errors"
	"time"

	"rover-service/drive"
)

// ControlLoopErrorDelay backs the loop off after a hard serial error so it
// does not spin on a dead descriptor.
const ControlLoopErrorDelay = 500 * time.Millisecond

// controlLoop is the single cooperative tick loop. Each tick drains at most
// one injected payload or decodes at most one serial token, dispatches it and
// applies the result. All dispatcher and vehicle state is owned here; nothing
// else mutates it. After halt the dispatcher absorbs every command, so the
// loop keeps draining input with no further effect while the process stays
// alive.
func (app *RoverApp) controlLoop() {
	app.log.Info("Control loop started")

	for {
		select {
		case <-app.ctx.Done():
			app.log.Info("Control loop stopped")
			return
		case raw := <-app.inject:
			app.handleInjected(raw)
			continue
		default:
		}

		cmd, ok, err := app.decoder.Next()
		if err != nil {
			if errors.Is(err, drive.ErrReadTimeout) {
				// Quiet link, keep polling. A stalled input stream is "no
				// new commands", never an implicit stop.
				continue
			}
			app.log.Error("Serial read error: %v", err)
			app.diag.SetFaultPresence(DiagFaultSerialRead, true)
			select {
			case <-app.ctx.Done():
				return
			case <-time.After(ControlLoopErrorDelay):
			}
			continue
		}
		app.diag.SetFaultPresence(DiagFaultSerialRead, false)

		if !ok {
			continue
		}

		app.handleCommand(cmd)
	}
}

// handleInjected runs a Redis-injected payload through the same decoder and
// dispatch path as serial input.
func (app *RoverApp) handleInjected(raw []byte) {
	dec := drive.NewDecoder(bytes.NewReader(raw), app.log)
	for {
		cmd, ok, err := dec.Next()
		if err != nil {
			// End of payload.
			return
		}
		if !ok {
			continue
		}
		app.handleCommand(cmd)
	}
}

func (app *RoverApp) handleCommand(cmd drive.Command) {
	app.log.Debug("Dispatching command: %s", cmd.Kind)

	res := app.dispatcher.Dispatch(cmd)

	if res.Applied {
		if err := app.drive.Apply(res.Outputs); err != nil {
			app.log.Error("Failed to apply %s outputs: %v", res.Directive, err)
			app.diag.SetFaultPresence(DiagFaultDriveApply, true)
		} else {
			app.diag.SetFaultPresence(DiagFaultDriveApply, false)
		}
	}

	if res.Echo != "" {
		if _, err := app.port.Write([]byte(res.Echo + "\r\n")); err != nil {
			app.log.Error("Failed to write status line: %v", err)
			app.diag.SetFaultPresence(DiagFaultSerialWrite, true)
		} else {
			app.diag.SetFaultPresence(DiagFaultSerialWrite, false)
		}
	}

	app.publishStatus(res)
}

// publishStatus mirrors the drive state to Redis. Only changes are sent so an
// idle command stream does not hammer the IPC link.
func (app *RoverApp) publishStatus(res drive.Result) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if res.Applied {
		app.lastDirective = res.Directive
	}

	if res.Applied || res.State != app.lastState {
		status := RedisDriveStatus{
			State:     res.State.String(),
			Directive: app.lastDirective.String(),
			Speed:     app.dispatcher.Vehicle().Speed,
		}
		if err := app.ipcTx.SendDriveStatus(status); err != nil {
			app.log.Printf("Failed to send drive status: %v", err)
		} else {
			app.lastState = res.State
		}
	}

	if res.AngleSeen {
		if err := app.ipcTx.SendAngle(RedisAngleStatus{Angle: res.Angle}); err != nil {
			app.log.Printf("Failed to send angle: %v", err)
		}
	}
}
