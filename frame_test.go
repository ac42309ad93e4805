package armature

import (
	"sync"
	"testing"
)

func TestFrameDriver(t *testing.T) {

	base, upper, fore, _ := testArm(t)

	dl := &DrawList{}
	fd := NewFrameDriver(base, dl)

	if err := fd.Controls.Selection.SetSlots(base, upper, fore); err != nil {
		t.Fatal(err)
	}

	frames := 0
	fd.OnFrame = func(s Snapshot) { frames++ }

	fd.Queue.Push(SelectSlotEvent{Slot: 1}, AdjustEvent{Axis: AxisZ, Direction: 1}, SelectSlotEvent{Slot: 9})

	// Nothing is applied until the frame boundary.
	if upper.Angle(AxisZ) != 0 {
		t.Fatalf("events applied before the frame")
	}

	fd.Frame(1.0 / 60)

	if upper.Angle(AxisZ) != 1 {
		t.Fatalf("queued adjustment wasn't applied")
	}

	if dl.Len() != base.Count() {
		t.Fatalf("expected %d draws, got %d", base.Count(), dl.Len())
	}

	snapshot := fd.LatestSnapshot()

	if snapshot.Frame != 1 || fd.FrameCount() != 1 || frames != 1 {
		t.Fatalf("unexpected frame counts %d / %d / %d", snapshot.Frame, fd.FrameCount(), frames)
	}

	if snapshot.Selected != "Upper" {
		t.Fatalf("expected Upper selected, got %q", snapshot.Selected)
	}

	ns, ok := snapshot.Node("Upper/Fore")
	if !ok {
		t.Fatalf("snapshot is missing Upper/Fore")
	}

	if !ns.WorldPosition.Equals(fore.WorldPosition()) || ns.Parent != "Upper" || ns.Depth != 2 {
		t.Fatalf("unexpected node snapshot %+v", ns)
	}

	// Snapshots are copies; later frames don't change earlier ones.
	fd.Queue.Push(AdjustEvent{Axis: AxisZ, Direction: 1})
	fd.Frame(1.0 / 60)

	if upperSnap, _ := snapshot.Node("Upper"); upperSnap.Angles[2] != 1 {
		t.Fatalf("old snapshot changed")
	}

}

func TestFrameDriverTween(t *testing.T) {

	base, _, _, _ := testArm(t)

	fd := NewFrameDriver(base, nil)
	fd.Queue.Push(TweenEvent{Axis: AxisX, Target: 30, Duration: 0.5})

	for i := 0; i < 40; i++ {
		fd.Frame(1.0 / 60)
	}

	if base.Angle(AxisX) != 30 {
		t.Fatalf("tween didn't finish over the frames, angle %v", base.Angle(AxisX))
	}

}

func TestLatestSnapshotConcurrent(t *testing.T) {

	base, _, _, _ := testArm(t)
	fd := NewFrameDriver(base, nil)

	wg := sync.WaitGroup{}
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				fd.Queue.Push(AdjustEvent{Axis: AxisY, Direction: 1})
				_ = fd.LatestSnapshot()
			}
		}
	}()

	for i := 0; i < 100; i++ {
		fd.Frame(1.0 / 60)
	}

	close(done)
	wg.Wait()

	fd.Frame(1.0 / 60)

	if fd.Queue.Len() != 0 {
		t.Fatalf("queue should be drained")
	}

	if fd.LatestSnapshot().Frame != 101 {
		t.Fatalf("expected 101 frames, got %d", fd.LatestSnapshot().Frame)
	}

}
