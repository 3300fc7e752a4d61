package model_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"pptally/internal/domain/model"
)

func TestModsString(t *testing.T) {
	Convey("Given mod bitmasks", t, func() {
		Convey("Then no mods renders as None", func() {
			So(model.Mods(0).String(), ShouldEqual, "None")
		})

		Convey("Then combinations concatenate acronyms", func() {
			So((model.ModHidden | model.ModDoubleTime).String(), ShouldEqual, "HDDT")
			So((model.ModHidden | model.ModHardRock).String(), ShouldEqual, "HDHR")
		})

		Convey("Then nightcore swallows its double-time bit", func() {
			So((model.ModNightcore | model.ModDoubleTime).String(), ShouldEqual, "NC")
			So((model.ModHidden | model.ModNightcore | model.ModDoubleTime).String(), ShouldEqual, "HDNC")
		})
	})
}

func TestSorting(t *testing.T) {
	Convey("Given plays with diverging live and local values", t, func() {
		plays := []model.Play{
			{BeatmapID: 1, LivePP: 100, LocalPP: 80},
			{BeatmapID: 2, LivePP: 90, LocalPP: 95},
			{BeatmapID: 3, LivePP: 95, LocalPP: 90},
		}

		Convey("When sorting by live pp", func() {
			live := make([]model.Play, len(plays))
			copy(live, plays)
			model.SortByLivePP(live)

			Convey("Then the live order is descending", func() {
				So(live[0].BeatmapID, ShouldEqual, 1)
				So(live[1].BeatmapID, ShouldEqual, 3)
				So(live[2].BeatmapID, ShouldEqual, 2)
			})
		})

		Convey("When sorting by local pp", func() {
			local := make([]model.Play, len(plays))
			copy(local, plays)
			model.SortByLocalPP(local)

			Convey("Then the local order is descending", func() {
				So(local[0].BeatmapID, ShouldEqual, 2)
				So(local[1].BeatmapID, ShouldEqual, 3)
				So(local[2].BeatmapID, ShouldEqual, 1)
			})

			Convey("And the score extraction follows slice order", func() {
				So(model.LocalPPs(local), ShouldResemble, []float64{95, 90, 80})
				So(model.LivePPs(local), ShouldResemble, []float64{90, 95, 100})
			})
		})

		Convey("When scores tie", func() {
			tied := []model.Play{
				{BeatmapID: 10, LivePP: 50},
				{BeatmapID: 11, LivePP: 50},
			}
			model.SortByLivePP(tied)

			Convey("Then the fetch order is preserved", func() {
				So(tied[0].BeatmapID, ShouldEqual, 10)
				So(tied[1].BeatmapID, ShouldEqual, 11)
			})
		})
	})
}
