package extract

import (
	"math"
	"strconv"

	"gymforge/internal/curve"
	"gymforge/internal/events"
	"gymforge/internal/guac"
)

// mouseEvents folds mouse instructions into click and drag events. A
// press/release pair within both thresholds becomes a click at the
// press position; anything longer or farther becomes a drag whose
// accumulated path is resampled to controlPoints samples. Point times
// are relative to the press.
func mouseEvents(instructions []guac.Instruction, clickPx float64, clickMs int64, controlPoints int) []events.Event {
	var out []events.Event
	var downTime int64
	var downX, downY int
	var path []events.TrajectoryPoint
	down := false
	lastButton := "0"

	for _, inst := range instructions {
		if inst.Opcode != guac.OpcodeMouse || len(inst.Args) < 3 {
			continue
		}
		x, errX := strconv.Atoi(inst.Args[0])
		y, errY := strconv.Atoi(inst.Args[1])
		if errX != nil || errY != nil {
			continue
		}
		button := inst.Args[2]

		switch {
		case button == "1" && lastButton == "0":
			down = true
			downTime = inst.Timestamp
			downX, downY = x, y
			path = []events.TrajectoryPoint{{Time: 0, X: x, Y: y}}
		case button == "0" && lastButton == "1" && down:
			duration := inst.Timestamp - downTime
			distance := math.Hypot(float64(x-downX), float64(y-downY))
			if distance <= clickPx && duration <= clickMs {
				out = append(out, events.MouseClick{Timestamp: downTime, X: downX, Y: downY})
			} else {
				out = append(out, events.MouseDrag{
					Timestamp: downTime,
					Points:    curve.Resample(path, controlPoints),
				})
			}
			down = false
			path = nil
		case button == "1" && down:
			path = append(path, events.TrajectoryPoint{Time: inst.Timestamp - downTime, X: x, Y: y})
		}

		lastButton = button
	}

	return out
}
