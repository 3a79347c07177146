package cache

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/rigado/bleiso"
)

type scheduleCache struct {
	filename string
	lock     sync.RWMutex
}

func New(filename string) bleiso.ScheduleCache {
	sc := scheduleCache{
		filename: filename,
	}

	return &sc
}

func (sc *scheduleCache) Store(key string, s bleiso.Schedule, replace bool) error {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	cache, err := sc.loadExisting()
	if err != nil {
		return err
	}

	_, ok := cache[key]
	if ok && !replace {
		return fmt.Errorf("cache already contains schedule for %s", key)
	}

	cache[key] = s

	return sc.storeCache(cache)
}

func (sc *scheduleCache) Load(key string) (bleiso.Schedule, error) {
	sc.lock.RLock()
	defer sc.lock.RUnlock()

	cache, err := sc.loadExisting()
	if err != nil {
		return bleiso.Schedule{}, err
	}

	s, ok := cache[key]
	if !ok {
		return bleiso.Schedule{}, fmt.Errorf("schedule for %s not found in cache", key)
	}

	return s, nil
}

func (sc *scheduleCache) Keys() ([]string, error) {
	sc.lock.RLock()
	defer sc.lock.RUnlock()

	cache, err := sc.loadExisting()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(cache))
	for k := range cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (sc *scheduleCache) Clear() error {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	err := os.Remove(sc.filename)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (sc *scheduleCache) loadExisting() (map[string]bleiso.Schedule, error) {
	_, err := os.Stat(sc.filename)
	if os.IsNotExist(err) {
		return map[string]bleiso.Schedule{}, nil
	}

	in, err := ioutil.ReadFile(sc.filename)
	if err != nil {
		return nil, err
	}

	var cache map[string]bleiso.Schedule
	err = jsoniter.Unmarshal(in, &cache)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		cache = map[string]bleiso.Schedule{}
	}

	return cache, nil
}

func (sc *scheduleCache) storeCache(cache map[string]bleiso.Schedule) error {
	out, err := jsoniter.Marshal(cache)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(sc.filename, out, 0644)
}
