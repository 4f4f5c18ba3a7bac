package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/san-kum/pendsim/internal/dynamo"
)

type runRecord struct {
	ID         string             `gorm:"primaryKey;size:127"`
	Model      string             `gorm:"size:64;index"`
	Integrator string             `gorm:"size:32"`
	Timestamp  time.Time          `gorm:"index"`
	Duration   float64
	Samples    int
	StateNames []string           `gorm:"serializer:json"`
	Params     map[string]float64 `gorm:"serializer:json"`
	Metrics    map[string]float64 `gorm:"serializer:json"`
	Derived    []string           `gorm:"serializer:json"`
}

func (runRecord) TableName() string { return "runs" }

// sampleRecord is one row of the trajectory: the state followed by the
// derived values in runRecord.Derived order.
type sampleRecord struct {
	ID      uint      `gorm:"primaryKey"`
	RunID   string    `gorm:"size:127;index:idx_sample_run_seq,priority:1"`
	Seq     int       `gorm:"index:idx_sample_run_seq,priority:2"`
	Time    float64
	State   []float64 `gorm:"serializer:json"`
	Derived []float64 `gorm:"serializer:json"`
}

func (sampleRecord) TableName() string { return "samples" }

// SQLStore keeps runs in a SQLite database.
type SQLStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// OpenSQL opens the database at path. An empty path selects a private
// in-memory database.
func OpenSQL(path string, log zerolog.Logger) (*SQLStore, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if path == "" {
		// A memory database lives on a single connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Debug().Str("path", path).Msg("opened run database")
	return &SQLStore{db: db, log: log}, nil
}

func (s *SQLStore) Init() error {
	if err := s.db.AutoMigrate(&runRecord{}, &sampleRecord{}); err != nil {
		return fmt.Errorf("migrate run database: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) Save(run *Run) (string, error) {
	if err := check(run); err != nil {
		return "", err
	}
	stamp(run)

	rec := runRecord{
		ID:         run.Meta.ID,
		Model:      run.Meta.Model,
		Integrator: run.Meta.Integrator,
		Timestamp:  run.Meta.Timestamp,
		Duration:   run.Meta.Duration,
		Samples:    run.Meta.Samples,
		StateNames: run.Meta.StateNames,
		Params:     run.Meta.Params,
		Metrics:    run.Meta.Metrics,
		Derived:    make([]string, len(run.Derived)),
	}
	for i, c := range run.Derived {
		rec.Derived[i] = c.Name
	}

	tr := run.Trajectory
	samples := make([]sampleRecord, tr.Len())
	for i := range samples {
		derived := make([]float64, len(run.Derived))
		for j, c := range run.Derived {
			derived[j] = c.Values[i]
		}
		samples[i] = sampleRecord{
			RunID:   rec.ID,
			Seq:     i,
			Time:    tr.Times[i],
			State:   tr.States[i].Clone(),
			Derived: derived,
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(samples, 2000).Error
	})
	if err != nil {
		return "", fmt.Errorf("save run %s: %w", rec.ID, err)
	}

	s.log.Debug().Str("run", rec.ID).Int("samples", len(samples)).Msg("run saved")
	return rec.ID, nil
}

func (rec *runRecord) metadata() RunMetadata {
	return RunMetadata{
		ID:         rec.ID,
		Model:      rec.Model,
		Integrator: rec.Integrator,
		Timestamp:  rec.Timestamp,
		Duration:   rec.Duration,
		Samples:    rec.Samples,
		StateNames: rec.StateNames,
		Params:     rec.Params,
		Metrics:    rec.Metrics,
	}
}

func (s *SQLStore) List() ([]RunMetadata, error) {
	var recs []runRecord
	if err := s.db.Order("timestamp").Find(&recs).Error; err != nil {
		return nil, err
	}
	runs := make([]RunMetadata, len(recs))
	for i := range recs {
		runs[i] = recs[i].metadata()
	}
	return runs, nil
}

func (s *SQLStore) Load(id string) (*Run, error) {
	var rec runRecord
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, err
	}

	var samples []sampleRecord
	if err := s.db.Where("run_id = ?", id).Order("seq").Find(&samples).Error; err != nil {
		return nil, err
	}

	run := &Run{
		Meta: rec.metadata(),
		Trajectory: &dynamo.Trajectory{
			Times:  make([]float64, len(samples)),
			States: make([]dynamo.State, len(samples)),
		},
		Derived: make([]Column, len(rec.Derived)),
	}
	for j, name := range rec.Derived {
		run.Derived[j] = Column{Name: name, Values: make([]float64, len(samples))}
	}
	for i, smp := range samples {
		if len(smp.Derived) != len(rec.Derived) {
			return nil, fmt.Errorf("run %s sample %d: %w", id, i, dynamo.ErrDimensionMismatch)
		}
		run.Trajectory.Times[i] = smp.Time
		run.Trajectory.States[i] = dynamo.State(smp.State)
		for j := range rec.Derived {
			run.Derived[j].Values[i] = smp.Derived[j]
		}
	}
	return run, nil
}
