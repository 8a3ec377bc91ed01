package store

import bolt "go.etcd.io/bbolt"

// CheckpointsBucket is the durable map from checkpoint name to a serialized
// register image.
type CheckpointsBucket struct {
	b *bolt.Bucket
}

// Checkpoints returns the checkpoint store bucket.
func (tx *Tx) Checkpoints() *CheckpointsBucket {
	return &CheckpointsBucket{b: tx.tx.Bucket(checkpointsBucketName)}
}

func (c *CheckpointsBucket) Get(name string) ([]byte, bool) {
	v := c.b.Get([]byte(name))
	if v == nil {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

func (c *CheckpointsBucket) Put(name string, image []byte) error {
	return c.b.Put([]byte(name), image)
}
