package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := NewCache(50*time.Millisecond, time.Minute)

	c.Set("key", "value")

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)

	c.Delete("key")
	_, ok = c.Get("key")
	assert.False(t, ok)

	// entries expire after the default expiration time
	c.Set("short", "lived")
	time.Sleep(100 * time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok)

	// explicit expiration overrides the default
	c.Set("long", "lived", time.Minute)
	time.Sleep(100 * time.Millisecond)
	_, ok = c.Get("long")
	assert.True(t, ok)

	c.Flush()
	_, ok = c.Get("long")
	assert.False(t, ok)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "blog:7", CacheKeyBlog(7))
	assert.Equal(t, "blogs:10:20", CacheKeyBlogs(10, 20))
	assert.Equal(t, "blogs_by_author:user_1", CacheKeyBlogsByAuthor("user_1"))
	assert.Equal(t, "public_profile:user_1", CacheKeyPublicProfile("user_1"))
}
