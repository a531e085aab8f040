package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
func Connect(ctx context.Context) {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDefault()
	disks["local"] = NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk(ctx)
		if err != nil {
			logger.Warn("storage/s3: disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultDisk]; !ok {
		logger.Warn("storage: default disk not available, using local", "disk", defaultDisk)
		defaultDisk = "local"
	}
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	defer managerMu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the STORAGE_DISK disk. Connect must have run.
func Default() Disk {
	d, err := Use(defaultDisk)
	if err != nil {
		panic(err)
	}
	return d
}

// RegisterDisk installs d under name and makes it the default when
// makeDefault is set. Used by tests and custom drivers.
func RegisterDisk(name string, d Disk, makeDefault bool) {
	managerMu.Lock()
	defer managerMu.Unlock()
	disks[name] = d
	if makeDefault {
		defaultDisk = name
	}
}
