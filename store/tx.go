package store

import bolt "go.etcd.io/bbolt"

// Tx is a single substrate transaction. All operations that read or mutate
// the catalog or segment data happen through a Tx obtained from
// Store.Update or Store.View.
type Tx struct {
	tx      *bolt.Tx
	metrics *storeMetrics
}

// Catalog returns the durable ordered map from li to segment name.
func (tx *Tx) Catalog() *CatalogBucket {
	return &CatalogBucket{b: tx.tx.Bucket(catalogBucketName)}
}

// Writable reports whether this transaction can mutate the store.
func (tx *Tx) Writable() bool { return tx.tx.Writable() }
