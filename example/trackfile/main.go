/*
trackfile runs the tracking core over a stream of detector frames.

Each line of stdin is one JSON frame document (camera_id plus a
detections array); each output line is the same document annotated with
the confirmed tracks for that frame.  Useful for replaying recorded
detector output through the tracker offline:

	trackfile -model models/osnet.json < detections.ndjson > tracked.ndjson
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/RuthlessHLS/SmartEye-Station-Guard-sub001/codec"
	"github.com/RuthlessHLS/SmartEye-Station-Guard-sub001/tracker"
)

func main() {

	modelFile := flag.String("model", "", "re-id model manifest, empty for geometry-only tracking")
	confirmHits := flag.Int("confirm", 0, "consecutive hits to confirm a track (0 = default)")
	maxAge := flag.Int("maxage", 0, "frames a lost track survives (0 = default)")
	spawnScore := flag.Float64("minscore", 0, "minimum confidence to spawn a track (0 = default)")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address, eg: :9091")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := tracker.Config{
		ConfirmHits: *confirmHits,
		MaxAge:      *maxAge,
		SpawnScore:  float32(*spawnScore),
	}

	metrics := tracker.NewMetrics()

	opts := []tracker.Option{
		tracker.WithLogger(log),
		tracker.WithMetrics(metrics),
	}

	if *modelFile != "" {
		opts = append(opts, tracker.WithModelFile(*modelFile))
	}

	mgr := tracker.NewManager(cfg, opts...)
	defer mgr.ReleaseAll()

	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	s := bufio.NewScanner(os.Stdin)
	bufsize := 10 << 20
	s.Buffer(make([]byte, bufsize), bufsize)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for s.Scan() {

		line := s.Bytes()

		frame, err := codec.ParseFrame(line)

		if err != nil {
			log.Error("skipping frame", "error", err)
			continue
		}

		tk := mgr.GetTracker(frame.CameraID)

		reports, err := tk.Update(frame.Detections)

		if err != nil {
			// round rolled back, frame not processed
			log.Error("frame not processed", "camera", frame.CameraID,
				"error", err)
			continue
		}

		annotated, err := codec.AnnotateFrame(line, reports)

		if err != nil {
			log.Error("annotate failed", "camera", frame.CameraID,
				"error", err)
			continue
		}

		fmt.Fprintln(out, string(annotated))
	}

	if err := s.Err(); err != nil {
		log.Error("stdin read failed", "error", err)
		os.Exit(1)
	}
}
