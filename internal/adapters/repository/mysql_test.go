package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/biz/internal/adapters/repository"
	"github.com/okian/biz/internal/domain/model"
)

func TestMySQLStore(t *testing.T) {
	Convey("Given a mysql store backed by sqlmock", t, func() {
		ctx := context.Background()
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		So(err, ShouldBeNil)
		defer db.Close()

		store, err := repository.NewMySQLStoreFromConn(db)
		So(err, ShouldBeNil)

		Convey("When the database answers pings", func() {
			mock.ExpectPing()

			Convey("Then Ping should succeed", func() {
				So(store.Ping(ctx), ShouldBeNil)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When the ping fails", func() {
			mock.ExpectPing().WillReturnError(errors.New("bad connection"))

			Convey("Then Ping should return the error", func() {
				err := store.Ping(ctx)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "bad connection")
			})
		})

		Convey("When inserting a record", func() {
			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO `test_records`").WillReturnResult(sqlmock.NewResult(7, 1))
			mock.ExpectCommit()

			rec := &model.TestRecord{Message: "Hello MySQL!", Timestamp: time.Now()}

			Convey("Then the generated ID should be set", func() {
				So(store.Insert(ctx, rec), ShouldBeNil)
				So(rec.ID, ShouldEqual, 7)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When the insert fails", func() {
			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO `test_records`").WillReturnError(errors.New("table is read only"))
			mock.ExpectRollback()

			Convey("Then Insert should return the error", func() {
				err := store.Insert(ctx, &model.TestRecord{Message: "x"})
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "read only")
			})
		})

		Convey("When reading recent records", func() {
			now := time.Now()
			rows := sqlmock.NewRows([]string{"id", "message", "timestamp"}).
				AddRow(3, "third", now).
				AddRow(2, "second", now)
			mock.ExpectQuery("SELECT \\* FROM `test_records` ORDER BY id desc LIMIT").WillReturnRows(rows)

			Convey("Then rows should come back newest first", func() {
				recs, err := store.Recent(ctx, 5)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 2)
				So(recs[0].ID, ShouldEqual, 3)
				So(recs[1].Message, ShouldEqual, "second")
			})
		})

		Convey("When the limit is not positive", func() {
			_, err := store.Recent(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestMySQLConfigDSN(t *testing.T) {
	Convey("Given a mysql config", t, func() {
		cfg := repository.MySQLConfig{Host: "db", Port: 3306, User: "admin", Password: "secret", Database: "mydb"}

		Convey("Then the DSN should carry the connection parameters", func() {
			dsn := cfg.DSN()
			So(dsn, ShouldStartWith, "admin:secret@tcp(db:3306)/mydb?")
			So(dsn, ShouldContainSubstring, "charset=utf8mb4")
			So(dsn, ShouldContainSubstring, "parseTime=true")
		})
	})
}
