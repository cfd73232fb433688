package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"go.etcd.io/bbolt"

	"github.com/migueleog01/partselect/internal/domain"
)

// snapshotSchemaVersion guards the persisted layout. A persisted snapshot in
// any other shape is treated as absent and rebuilt, never a fatal error.
const snapshotSchemaVersion = 1

var (
	bucketMeta     = []byte("meta")
	bucketPassages = []byte("passages")
	bucketVectors  = []byte("vectors")
	keyMeta        = []byte("snapshot_meta")
	keyVersion     = []byte("schema_version")
)

// BoltSnapshotStore persists index snapshots in a bbolt file. Save replaces
// the whole snapshot inside a single write transaction, so a crash mid-write
// rolls back and the previous snapshot stays visible to later loads.
type BoltSnapshotStore struct {
	db *bbolt.DB
}

func NewBoltSnapshotStore(path string) (*BoltSnapshotStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}
	return &BoltSnapshotStore{db: db}, nil
}

func (s *BoltSnapshotStore) Close() error {
	return s.db.Close()
}

func (s *BoltSnapshotStore) Save(meta domain.SnapshotMeta, passages []domain.Passage, vectors [][]float32) error {
	if len(passages) != len(vectors) {
		return fmt.Errorf("snapshot misaligned: %d passages, %d vectors", len(passages), len(vectors))
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketPassages, bucketVectors} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}

		mb := tx.Bucket(bucketMeta)
		if err := mb.Put(keyVersion, []byte{snapshotSchemaVersion}); err != nil {
			return err
		}
		metaData, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := mb.Put(keyMeta, metaData); err != nil {
			return err
		}

		pb := tx.Bucket(bucketPassages)
		vb := tx.Bucket(bucketVectors)
		for i := range passages {
			key := rowKey(i)
			passageData, err := json.Marshal(passages[i])
			if err != nil {
				return err
			}
			if err := pb.Put(key, passageData); err != nil {
				return err
			}
			if err := vb.Put(key, encodeVector(vectors[i])); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns ok=false for a missing, corrupt, or incompatible snapshot;
// the caller is expected to rebuild in that case.
func (s *BoltSnapshotStore) Load() (domain.SnapshotMeta, []domain.Passage, [][]float32, bool, error) {
	var (
		meta     domain.SnapshotMeta
		passages []domain.Passage
		vectors  [][]float32
		ok       bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMeta)
		pb := tx.Bucket(bucketPassages)
		vb := tx.Bucket(bucketVectors)
		if mb == nil || pb == nil || vb == nil {
			return nil
		}

		version := mb.Get(keyVersion)
		if len(version) != 1 || version[0] != snapshotSchemaVersion {
			return nil
		}

		metaData := mb.Get(keyMeta)
		if metaData == nil {
			return nil
		}
		if err := json.Unmarshal(metaData, &meta); err != nil {
			return nil
		}

		loadErr := pb.ForEach(func(k, v []byte) error {
			var p domain.Passage
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			passages = append(passages, p)
			return nil
		})
		if loadErr != nil {
			return nil
		}

		loadErr = vb.ForEach(func(k, v []byte) error {
			vec, err := decodeVector(v)
			if err != nil {
				return err
			}
			vectors = append(vectors, vec)
			return nil
		})
		if loadErr != nil {
			return nil
		}

		if len(passages) != len(vectors) || len(passages) == 0 {
			return nil
		}

		ok = true
		return nil
	})
	if err != nil {
		return domain.SnapshotMeta{}, nil, nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !ok {
		return domain.SnapshotMeta{}, nil, nil, false, nil
	}
	return meta, passages, vectors, true, nil
}

// rowKey is big-endian so bucket iteration order matches row order.
func rowKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("malformed vector: %d bytes", len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v, nil
}
