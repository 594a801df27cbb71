// Package codec bridges the JSON frame format of the upstream detector
// pipeline to the tracking core: it parses per-frame detection lists
// and writes tracking results back onto the frame document for the
// downstream alerting and overlay consumers.
package codec

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/RuthlessHLS/SmartEye-Station-Guard-sub001/tracker"
)

// ErrNoCamera is returned when a frame document carries no camera
// identifier.
var ErrNoCamera = errors.New("frame has no camera_id")

// Frame is one parsed detector frame.
type Frame struct {
	// CameraID identifies the producing camera stream
	CameraID string
	// Detections for this frame, in detector output order
	Detections []tracker.Detection
}

// ParseFrame decodes a detector frame document of the form:
//
//	{"camera_id": "cam-3",
//	 "detections": [
//	   {"bbox": [x1, y1, x2, y2], "label": "person",
//	    "confidence": 0.91, "id": 17, "feature": [...]}]}
//
// The feature and id fields are optional.  Boxes are not validated
// here; the tracker drops malformed ones during its round.
func ParseFrame(data []byte) (Frame, error) {

	var f Frame

	if !gjson.ValidBytes(data) {
		return f, errors.New("frame is not valid JSON")
	}

	root := gjson.ParseBytes(data)

	f.CameraID = root.Get("camera_id").String()

	if f.CameraID == "" {
		return f, ErrNoCamera
	}

	var parseErr error

	root.Get("detections").ForEach(func(_, item gjson.Result) bool {

		bbox := item.Get("bbox").Array()

		if len(bbox) != 4 {
			parseErr = fmt.Errorf("detection bbox needs 4 values, got %d",
				len(bbox))
			return false
		}

		det := tracker.NewDetection(
			float32(bbox[0].Float()), float32(bbox[1].Float()),
			float32(bbox[2].Float()), float32(bbox[3].Float()),
			item.Get("label").String(),
			float32(item.Get("confidence").Float()),
		)

		det.ID = item.Get("id").Int()

		if feat := item.Get("feature").Array(); len(feat) > 0 {
			det.Feature = make([]float32, len(feat))
			for i, v := range feat {
				det.Feature[i] = float32(v.Float())
			}
		}

		f.Detections = append(f.Detections, det)

		return true
	})

	if parseErr != nil {
		return Frame{}, parseErr
	}

	return f, nil
}

// trackJSON is the wire form of one reported track.
type trackJSON struct {
	TrackID     string     `json:"track_id"`
	BBox        [4]float32 `json:"bbox"`
	Label       string     `json:"label"`
	Score       float32    `json:"score"`
	DetectionID int64      `json:"detection_id,omitempty"`
}

// AnnotateFrame writes the round's reports onto the original frame
// document under a "tracks" array, preserving everything else the
// detector put there.  An empty report list still writes the key so
// consumers can tell a processed frame from an unprocessed one.
func AnnotateFrame(data []byte, reports []tracker.Report) ([]byte, error) {

	tracks := make([]trackJSON, len(reports))

	for i, rep := range reports {
		tracks[i] = trackJSON{
			TrackID: rep.TrackID,
			BBox: [4]float32{
				rep.Rect.X, rep.Rect.Y, rep.Rect.BRX(), rep.Rect.BRY(),
			},
			Label:       rep.Label,
			Score:       rep.Score,
			DetectionID: rep.DetectionID,
		}
	}

	out, err := sjson.SetBytes(data, "tracks", tracks)

	if err != nil {
		return nil, fmt.Errorf("annotate frame: %w", err)
	}

	return out, nil
}
