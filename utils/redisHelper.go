package utils

import (
	"os"
	"reflect"
	"strconv"
	"time"
)

// GetTypeName returns the bare struct name of T, used to build cache keys.
func GetTypeName[T any]() string {
	var v T
	return reflect.TypeOf(v).Name()
}

// CacheKey builds the per-document cache key, e.g. "Product:<id>".
func CacheKey[T any](id string) string {
	return GetTypeName[T]() + ":" + id
}

// CacheListKey builds the per-scope list cache key, e.g. "ProductList:<shopId>".
func CacheListKey[T any](scope string) string {
	if scope == "" {
		return GetTypeName[T]() + "List"
	}
	return GetTypeName[T]() + "List:" + scope
}

// GetCacheLifespan reads CACHE_LIFESPAN (hours), defaulting to 1.
func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}
