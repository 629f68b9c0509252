package engine

import (
	"sort"
	"time"

	"github.com/taboz-tech/FuelMonitorHub-sub000/internal/models"
)

// Channel tags a power event with the sensor stream it came from.
type Channel string

const (
	ChannelGenerator Channel = "generator"
	ChannelZesa      Channel = "zesa"
)

// PowerEvent is one tagged state report on the merged timeline.
// Terminal marks the synthetic closer at the evaluation boundary; it
// closes the final interval without changing any state.
type PowerEvent struct {
	At       time.Time
	Channel  Channel
	On       bool
	Terminal bool
}

// PowerTimeline is one device-day's merged chronological event stream,
// seeded with the channel states carried forward from before day start.
type PowerTimeline struct {
	Start       time.Time
	End         time.Time
	GeneratorOn bool
	ZesaOn      bool
	Events      []PowerEvent
}

// PrecedencePolicy resolves the two raw channel flags into one PowerState.
// It is applied at the day-start seed, when an off-report releases a
// channel, and for simultaneous events. It is an explicit business rule,
// injected rather than hard-coded, so it can be swapped without touching
// the walk.
type PrecedencePolicy func(generatorOn, zesaOn bool) models.PowerState

// GeneratorPriority is the default policy: a running backup generator
// overrides grid reporting; with neither channel on the site is offline.
func GeneratorPriority(generatorOn, zesaOn bool) models.PowerState {
	switch {
	case generatorOn:
		return models.PowerGenerator
	case zesaOn:
		return models.PowerGrid
	default:
		return models.PowerOffline
	}
}

// BuildPowerTimeline merges the generator and zesa channels for
// [start, end) into one ascending tagged stream. Seeds are the most recent
// samples strictly before start on each channel (nil seeds a channel off —
// unknown is indistinguishable from off). Same-day samples outside the
// window are dropped. A state-preserving terminal event at end closes the
// final interval.
func BuildPowerTimeline(generator, zesa []models.SensorSample, generatorSeed, zesaSeed *models.SensorSample, start, end time.Time) PowerTimeline {
	tl := PowerTimeline{Start: start, End: end}

	if generatorSeed != nil {
		tl.GeneratorOn = IsOnToken(generatorSeed.Value)
	}
	if zesaSeed != nil {
		tl.ZesaOn = IsOnToken(zesaSeed.Value)
	}

	events := make([]PowerEvent, 0, len(generator)+len(zesa)+1)
	events = appendChannelEvents(events, zesa, ChannelZesa, start, end)
	events = appendChannelEvents(events, generator, ChannelGenerator, start, end)

	// Stable sort keeps zesa before generator at equal timestamps, so a
	// simultaneous generator report is applied last and wins the instant.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.Before(events[j].At)
	})

	events = append(events, PowerEvent{At: end, Terminal: true})
	tl.Events = events
	return tl
}

func appendChannelEvents(events []PowerEvent, samples []models.SensorSample, ch Channel, start, end time.Time) []PowerEvent {
	for i := range samples {
		at := samples[i].SampledAt
		if at.Before(start) || !at.Before(end) {
			continue
		}
		events = append(events, PowerEvent{At: at, Channel: ch, On: IsOnToken(samples[i].Value)})
	}
	return events
}

// AccumulatePowerRuntime walks the merged timeline and buckets every
// interval into generator/grid/offline hours. The state in effect over an
// interval is the state resolved before the event at the interval's end is
// applied. A channel's off→on transition claims the power source (the
// freshest on-report is what is actually powering the site); an off-report
// releases its channel and the policy resolves the fallback.
//
// Generator and grid hours are rounded independently; offline is derived
// by CloseBuckets so the three buckets sum exactly to the rounded elapsed
// hours. Offline absorbs the rounding residual deliberately. The returned
// flag reports whether the zero-clamp fired.
func AccumulatePowerRuntime(tl PowerTimeline, policy PrecedencePolicy) (models.PowerRuntimeResult, bool) {
	generatorOn, zesaOn := tl.GeneratorOn, tl.ZesaOn
	state := policy(generatorOn, zesaOn)

	buckets := map[models.PowerState]time.Duration{}
	cursor := tl.Start

	for _, ev := range tl.Events {
		at := ev.At
		if at.Before(cursor) {
			at = cursor
		}
		buckets[state] += at.Sub(cursor)
		cursor = at

		if ev.Terminal {
			continue
		}

		switch ev.Channel {
		case ChannelGenerator:
			if ev.On && !generatorOn {
				state = models.PowerGenerator
			}
			generatorOn = ev.On
		case ChannelZesa:
			if ev.On && !zesaOn {
				state = models.PowerGrid
			}
			zesaOn = ev.On
		}
		if !ev.On {
			state = policy(generatorOn, zesaOn)
		}
	}

	if cursor.Before(tl.End) {
		buckets[state] += tl.End.Sub(cursor)
	}

	elapsed := tl.End.Sub(tl.Start).Hours()
	closed, clamped := CloseBuckets(elapsed, []float64{
		buckets[models.PowerGenerator].Hours(),
		buckets[models.PowerGrid].Hours(),
		buckets[models.PowerOffline].Hours(),
	}, 2)

	return models.PowerRuntimeResult{
		GeneratorHours: closed[0],
		GridHours:      closed[1],
		OfflineHours:   closed[2],
		ElapsedHours:   Round2(elapsed),
	}, clamped
}
