package recorder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/macrokit/macrocli/config"
	"github.com/macrokit/macrocli/desktop"
	"github.com/macrokit/macrocli/types"
)

// Classification is a pure function of the movement samples seen between
// press and release: the gesture is a drag exactly when some sample lies at
// least the threshold away from the press point, regardless of where the
// release lands.
func TestClassificationMatchesEuclideanRule(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		threshold := rapid.IntRange(1, 50).Draw(t, "threshold")
		pressX := rapid.IntRange(0, 2000).Draw(t, "pressX")
		pressY := rapid.IntRange(0, 2000).Draw(t, "pressY")
		moves := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) [2]int {
			return [2]int{
				rapid.IntRange(0, 2000).Draw(t, "x"),
				rapid.IntRange(0, 2000).Draw(t, "y"),
			}
		}), 0, 20).Draw(t, "moves")
		releaseX := rapid.IntRange(0, 2000).Draw(t, "releaseX")
		releaseY := rapid.IntRange(0, 2000).Draw(t, "releaseY")

		s := config.Default()
		s.Recording.DragThresholdPX = threshold
		h := newHarness(t, s)
		_, err := h.rec.Start()
		require.NoError(t, err)

		h.button(pressX, pressY, desktop.RawButtonLeft, true)
		for _, m := range moves {
			h.move(m[0], m[1])
		}
		h.button(releaseX, releaseY, desktop.RawButtonLeft, false)
		h.rec.Stop()

		wantDrag := false
		for _, m := range moves {
			d := math.Hypot(float64(m[0]-pressX), float64(m[1]-pressY))
			if d >= float64(threshold) {
				wantDrag = true
				break
			}
		}

		require.Len(t, h.events, 1)
		ev := h.events[0]
		if wantDrag {
			require.Equal(t, types.EventDrag, ev.Type)
			require.NotNil(t, ev.X2)
			require.Equal(t, releaseX, *ev.X2)
			require.Equal(t, releaseY, *ev.Y2)
		} else {
			require.Equal(t, types.EventClick, ev.Type)
			require.Nil(t, ev.X2)
		}
		require.Equal(t, pressX, ev.X1)
		require.Equal(t, pressY, ev.Y1)
	})
}
