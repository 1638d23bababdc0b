package model

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const sampleJSONL = `{"id":"q1","question":"Is P equal to NP?","answer":"","label":"UNKNOWN","domain":"mathematics","source":"curated"}

{"id":"q2","question":"What is the speed of light?","answer":"299792458 m/s","label":"KNOWN","domain":"physics","source":"curated"}
{"id":"q3","question":"Is the many-worlds interpretation correct?","answer":"","label":"CONTRADICTION","domain":"physics","source":"curated"}
`

func TestReadSamples(t *testing.T) {
	Convey("Given a JSONL stream with a blank line", t, func() {
		samples, err := ReadSamples(strings.NewReader(sampleJSONL))

		Convey("All records parse and blanks are skipped", func() {
			So(err, ShouldBeNil)
			So(len(samples), ShouldEqual, 3)
			So(samples[0].ID, ShouldEqual, "q1")
			So(samples[0].Label, ShouldEqual, LabelUnknown)
			So(samples[1].Answer, ShouldEqual, "299792458 m/s")
			So(samples[2].Label, ShouldEqual, LabelContradiction)
		})
	})

	Convey("Given malformed input", t, func() {
		Convey("Broken JSON aborts with the line number", func() {
			_, err := ReadSamples(strings.NewReader(`{"id":"q1","question":"q","label":"KNOWN"}` + "\nnot json\n"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "line 2")
		})

		Convey("An unrecognized label aborts the read", func() {
			_, err := ReadSamples(strings.NewReader(`{"id":"q1","question":"q","label":"MAYBE"}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "MAYBE")
		})

		Convey("A record without an id aborts the read", func() {
			_, err := ReadSamples(strings.NewReader(`{"question":"q","label":"KNOWN"}`))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("An empty stream yields no samples and no error", t, func() {
		samples, err := ReadSamples(strings.NewReader(""))
		So(err, ShouldBeNil)
		So(samples, ShouldBeNil)
	})
}

func TestGroundTruthFrom(t *testing.T) {
	Convey("Given parsed samples", t, func() {
		samples, err := ReadSamples(strings.NewReader(sampleJSONL))
		So(err, ShouldBeNil)

		Convey("Ground truth maps each id to its label", func() {
			gt, err := GroundTruthFrom(samples)
			So(err, ShouldBeNil)
			So(len(gt), ShouldEqual, 3)
			So(gt["q1"], ShouldEqual, LabelUnknown)
			So(gt["q2"], ShouldEqual, LabelKnown)
		})

		Convey("Duplicate ids are an error, never an overwrite", func() {
			_, err := GroundTruthFrom(append(samples, samples[0]))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "q1")
		})
	})
}

func TestLoadSamples(t *testing.T) {
	Convey("A missing file reports the open failure", t, func() {
		_, err := LoadSamples("does/not/exist.jsonl")
		So(err, ShouldNotBeNil)
	})
}
