package store

import bolt "go.etcd.io/bbolt"

// CatalogBucket is the durable ordered map from li (1-based, contiguous
// modulo reclamation) to segment bucket name.
type CatalogBucket struct {
	b *bolt.Bucket
}

// Put records that li is backed by the segment named name.
func (c *CatalogBucket) Put(li uint64, name string) error {
	return c.b.Put(itob(li), []byte(name))
}

// Get returns the segment name for li, if cataloged.
func (c *CatalogBucket) Get(li uint64) (string, bool) {
	v := c.b.Get(itob(li))
	if v == nil {
		return "", false
	}
	return string(v), true
}

// Delete removes li from the catalog.
func (c *CatalogBucket) Delete(li uint64) error {
	return c.b.Delete(itob(li))
}

// Cursor returns a cursor for ordered (li, name) traversal.
func (c *CatalogBucket) Cursor() *CatalogCursor {
	return &CatalogCursor{c: c.b.Cursor()}
}

// CatalogCursor traverses the catalog in li order.
type CatalogCursor struct {
	c *bolt.Cursor
}

func decodeEntry(k, v []byte) (uint64, string, bool) {
	if k == nil {
		return 0, "", false
	}
	return btoi(k), string(v), true
}

func (c *CatalogCursor) First() (uint64, string, bool) { return decodeEntry(c.c.First()) }
func (c *CatalogCursor) Last() (uint64, string, bool)  { return decodeEntry(c.c.Last()) }
func (c *CatalogCursor) Next() (uint64, string, bool)  { return decodeEntry(c.c.Next()) }
func (c *CatalogCursor) Prev() (uint64, string, bool)  { return decodeEntry(c.c.Prev()) }
