// Package wrapper is a bbolt backed implementation of the aries storage
// interfaces. Values are encrypted with AES-GCM and keys are hashed before
// they hit the disk, so the storage file leaks nothing about the session
// it holds.
package wrapper

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	bolt "go.etcd.io/bbolt"
)

const level7 = 7

type Store interface {
	storage.Store
	GetAll() ([][]byte, error)
}

type Config struct {
	Key       string
	FileName  string
	FilePath  string
	BucketIDs []string
}

type StorageProvider struct {
	l sync.RWMutex

	conf    Config
	db      *bolt.DB
	buckets map[string]bucket
	gcm     cipher.AEAD
}

func New(config Config) *StorageProvider {
	s := &StorageProvider{
		l:       sync.RWMutex{},
		conf:    config,
		db:      nil,
		buckets: make(map[string]bucket),
	}

	var bucketKey byte
	for _, name := range s.conf.BucketIDs {
		s.buckets[name] = newBucket(s, bucketKey)
		bucketKey++
	}

	return s
}

func (s *StorageProvider) Init() (err error) {
	defer err2.Handle(&err, "storage open")

	s.l.Lock()
	defer s.l.Unlock()

	if s.db != nil {
		glog.Warningf("skipping storage provider initialization for %s, already open", s.conf.FileName)
		return nil
	}

	if len(s.conf.BucketIDs) == 0 {
		return fmt.Errorf("no buckets specified")
	}

	if s.conf.Key != "" {
		k := try.To1(hex.DecodeString(s.conf.Key))
		block := try.To1(aes.NewCipher(k))
		s.gcm = try.To1(cipher.NewGCM(block))
	}

	path := "."
	if s.conf.FilePath != "" {
		path = s.conf.FilePath
	}
	filename := path + "/" + s.conf.FileName + ".bolt"

	db := try.To1(bolt.Open(filename, 0600, nil))

	try.To(db.Update(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err)

		var bucketKey byte
		for range s.conf.BucketIDs {
			try.To1(tx.CreateBucketIfNotExists([]byte{bucketKey}))
			bucketKey++
		}
		return nil
	}))

	s.db = db
	return nil
}

func (s *StorageProvider) ID() string {
	return s.conf.FileName
}

func (s *StorageProvider) Key() string {
	return s.conf.Key
}

// OpenStore returns a handle to one named bucket of the storage file.
func (s *StorageProvider) OpenStore(name string) (storage.Store, error) {
	glog.V(level7).Infoln("StorageProvider::OpenStore", s.ID(), name)

	if b, ok := s.buckets[name]; ok {
		return &b, nil
	}
	return nil, fmt.Errorf("store %s not found", name)
}

func (s *StorageProvider) Close() (err error) {
	defer err2.Handle(&err, "storage close")

	s.l.Lock()
	defer s.l.Unlock()

	if s.db == nil {
		glog.Warningf("skipping storage provider close for %s, already closed", s.conf.FileName)
		return nil
	}

	try.To(s.db.Close())
	s.db = nil
	return
}

func (s *StorageProvider) addData(bucketID byte, key, value []byte) (err error) {
	s.l.RLock()
	defer s.l.RUnlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte{bucketID}).Put(s.hash(key), s.encrypt(value))
	})
}

func (s *StorageProvider) hash(key []byte) (k []byte) {
	if s.gcm != nil {
		h := sha256.Sum256(key)
		return h[:]
	}
	return append(key[:0:0], key...)
}

func (s *StorageProvider) encrypt(value []byte) (v []byte) {
	if s.gcm != nil {
		nonce := make([]byte, s.gcm.NonceSize())
		try.To1(rand.Read(nonce))
		return s.gcm.Seal(nonce, nonce, value, nil)
	}
	return append(value[:0:0], value...)
}

func (s *StorageProvider) decrypt(value []byte) (v []byte, err error) {
	defer err2.Handle(&err, "storage decrypt")

	if s.gcm != nil {
		ns := s.gcm.NonceSize()
		if len(value) < ns {
			return nil, fmt.Errorf("ciphertext too short")
		}
		return s.gcm.Open(nil, value[:ns], value[ns:], nil)
	}
	return append(value[:0:0], value...), nil
}

func (s *StorageProvider) getData(
	bucketID byte,
	key []byte,
) (
	value []byte,
	err error,
) {
	s.l.RLock()
	defer s.l.RUnlock()

	err = s.db.View(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err)

		data := tx.Bucket([]byte{bucketID}).Get(s.hash(key))
		if data == nil {
			return nil
		}
		value = try.To1(s.decrypt(data))
		return nil
	})
	return value, err
}

func (s *StorageProvider) deleteData(bucketID byte, key string) (err error) {
	s.l.RLock()
	defer s.l.RUnlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte{bucketID}).Delete(s.hash([]byte(key)))
	})
}

func (s *StorageProvider) getAll(bucketID byte) (res [][]byte, err error) {
	s.l.RLock()
	defer s.l.RUnlock()

	res = make([][]byte, 0)
	err = s.db.View(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err)

		return tx.Bucket([]byte{bucketID}).ForEach(func(_, v []byte) error {
			res = append(res, try.To1(s.decrypt(v)))
			return nil
		})
	})
	return res, err
}

// aries StorageProvider placeholder implementations
func (s *StorageProvider) SetStoreConfig(name string, config storage.StoreConfiguration) error {
	glog.V(level7).Infoln("StorageProvider::SetStoreConfig", name)
	panic("implement me")
}

func (s *StorageProvider) GetStoreConfig(name string) (storage.StoreConfiguration, error) {
	glog.V(level7).Infoln("StorageProvider::GetStoreConfig", name)
	panic("implement me")
}

func (s *StorageProvider) GetOpenStores() []storage.Store {
	glog.V(level7).Infoln("StorageProvider::GetOpenStores")
	panic("implement me")
}
