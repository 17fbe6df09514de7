package persistence_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/trackboard/internal/adapters/kvstore"
	"github.com/okian/trackboard/internal/adapters/persistence"
	"github.com/okian/trackboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type failingStore struct{ kvstore.Store }

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection reset")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("connection reset")
}

func sampleSession() model.Session {
	return model.Session{
		Caption:          "Long Jump",
		NumberOfAthletes: 2,
		SetupComplete:    true,
		Rows: []model.Row{
			{Name: "Powell", Age: "29", Time: "8.95", Appearances: "3", Medals: "2", Country: "USA"},
			{Name: "Beamon", Age: "22", Time: "8.90", Appearances: "1", Medals: "1", Country: "USA"},
		},
	}
}

func TestLoad(t *testing.T) {
	Convey("Given an empty store", t, func() {
		store := kvstore.NewMemory()
		repo := persistence.New(store)
		ctx := context.Background()

		Convey("When loading", func() {
			_, found, err := repo.Load(ctx)

			Convey("Then there is no session", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})

		Convey("When the flag is set but rows are missing", func() {
			So(store.Set(ctx, persistence.KeySetupComplete, "true"), ShouldBeNil)
			_, _, err := repo.Load(ctx)
			So(errors.Is(err, persistence.ErrMalformedSession), ShouldBeTrue)
		})

		Convey("When the rows are not a JSON array", func() {
			So(store.SetMany(ctx, map[string]string{
				persistence.KeySetupComplete: "true",
				persistence.KeyTableData:     `{"name":"x"}`,
			}), ShouldBeNil)
			_, _, err := repo.Load(ctx)
			So(errors.Is(err, persistence.ErrMalformedSession), ShouldBeTrue)
		})

		Convey("When the rows are null", func() {
			So(store.SetMany(ctx, map[string]string{
				persistence.KeySetupComplete: "true",
				persistence.KeyTableData:     "null",
			}), ShouldBeNil)
			_, _, err := repo.Load(ctx)
			So(errors.Is(err, persistence.ErrMalformedSession), ShouldBeTrue)
		})
	})

	Convey("Given a store that fails", t, func() {
		repo := persistence.New(failingStore{})
		_, _, err := repo.Load(context.Background())
		So(err, ShouldNotBeNil)
		So(errors.Is(err, persistence.ErrMalformedSession), ShouldBeFalse)
		So(repo.SaveRows(context.Background(), nil), ShouldNotBeNil)
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a file-backed repository", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "session.json")
		store, err := kvstore.NewFile(path)
		So(err, ShouldBeNil)
		repo := persistence.New(store)

		Convey("When a setup is saved and rows rewritten", func() {
			s := sampleSession()
			So(repo.SaveSetup(ctx, s), ShouldBeNil)

			reordered := []model.Row{s.Rows[1], s.Rows[0], s.Rows[1]}
			So(repo.SaveRows(ctx, reordered), ShouldBeNil)

			Convey("Then a fresh repository reads the same ordered rows", func() {
				again, err := kvstore.NewFile(path)
				So(err, ShouldBeNil)
				loaded, found, err := persistence.New(again).Load(ctx)
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(loaded.Caption, ShouldEqual, "Long Jump")
				So(loaded.NumberOfAthletes, ShouldEqual, 2)
				So(loaded.SetupComplete, ShouldBeTrue)
				So(loaded.Rows, ShouldResemble, reordered)
			})

			Convey("And the raw keys use the documented encoding", func() {
				v, _, _ := store.Get(ctx, persistence.KeySetupComplete)
				So(v, ShouldEqual, "true")
				n, _, _ := store.Get(ctx, persistence.KeyNumberOfAthletes)
				So(n, ShouldEqual, "2")
				d, _, _ := store.Get(ctx, persistence.KeyTableData)
				So(d, ShouldStartWith, `[{"name":"Beamon","age":"22","time":"8.90"`)
			})
		})

		Convey("When an empty row list is saved", func() {
			s := sampleSession()
			s.Rows = nil
			So(repo.SaveSetup(ctx, s), ShouldBeNil)
			loaded, found, err := repo.Load(ctx)
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
			So(loaded.Rows, ShouldBeEmpty)
		})
	})
}
