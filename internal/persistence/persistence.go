package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/fanloop/internal/hwmon"
	"github.com/markusressel/fanloop/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketPwmOutput = "pwmOutput"

	// the controlled output is a singleton, stored under a fixed key
	pwmOutputKey = "current"
)

type Persistence interface {
	Init() error

	LoadPwmOutput() (hwmon.DiscoveredOutput, error)
	SavePwmOutput(output hwmon.DiscoveredOutput) (err error)
	DeletePwmOutput() (err error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SavePwmOutput saves the discovered pwm output to persistence
func (p persistence) SavePwmOutput(output hwmon.DiscoveredOutput) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(output)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketPwmOutput))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		err = b.Put([]byte(pwmOutputKey), data)
		return err
	})
}

// LoadPwmOutput loads the discovered pwm output from persistence.
// Returns os.ErrNotExist when no output has been persisted yet.
func (p persistence) LoadPwmOutput() (hwmon.DiscoveredOutput, error) {
	db, err := p.openPersistence()
	if err != nil {
		return hwmon.DiscoveredOutput{}, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var output hwmon.DiscoveredOutput
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketPwmOutput))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(pwmOutputKey))
		if v == nil {
			return os.ErrNotExist
		}

		err := json.Unmarshal(v, &output)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved pwm output: %v", err)
			err := b.Delete([]byte(pwmOutputKey))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", pwmOutputKey, err)
			}
			return os.ErrNotExist
		}

		return nil
	})

	return output, err
}

func (p persistence) DeletePwmOutput() error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketPwmOutput))
		if b == nil {
			// no bucket yet
			return nil
		}
		v := b.Get([]byte(pwmOutputKey))
		if v == nil {
			// no data for given key
			return nil
		}

		return b.Delete([]byte(pwmOutputKey))
	})
}
