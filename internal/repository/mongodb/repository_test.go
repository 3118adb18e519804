package mongodb

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mamadbah2/gigboard/internal/domain/models"
)

func TestWeeklyReportArchive(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save", func(mt *mtest.T) {
		Convey("Given an archive over a mock deployment", mt, func() {
			repo := newRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())
			mt.AddMockResponses(mtest.CreateSuccessResponse())

			Convey("A report is inserted", func() {
				err := repo.SaveWeeklyReport(context.Background(), models.WeeklyReport{GigCount: 2, GrossRevenue: 400})
				So(err, ShouldBeNil)
			})
		})
	})

	mt.Run("latest", func(mt *mtest.T) {
		Convey("Given an archive holding one report", mt, func() {
			repo := newRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())
			end := time.Date(2025, 3, 7, 20, 0, 0, 0, time.UTC)
			ns := mt.DB.Name() + "." + mt.Coll.Name()
			mt.AddMockResponses(
				mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
					{Key: "period_end", Value: end},
					{Key: "gig_count", Value: 2},
					{Key: "gross_revenue", Value: 400.0},
					{Key: "audience", Value: 110},
				}),
			)

			Convey("The latest reports are decoded", func() {
				reports, err := repo.LatestWeeklyReports(context.Background(), 5)
				So(err, ShouldBeNil)
				So(reports, ShouldHaveLength, 1)
				So(reports[0].GigCount, ShouldEqual, 2)
				So(reports[0].GrossRevenue, ShouldEqual, 400)
				So(reports[0].Audience, ShouldEqual, 110)
				So(reports[0].PeriodEnd.Equal(end), ShouldBeTrue)
			})
		})
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		Convey("Given a deployment that rejects writes", mt, func() {
			repo := newRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())
			mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "duplicate key error",
			}))

			Convey("The error is wrapped", func() {
				err := repo.SaveWeeklyReport(context.Background(), models.WeeklyReport{})
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "failed to insert weekly report")
			})
		})
	})
}
