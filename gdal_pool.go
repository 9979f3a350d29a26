/*
Copyright (C) 2025 [GrainArc]

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package Godomain

/*
#cgo pkg-config: gdal
#include "osgeo_utils.h"
*/
import "C"

import (
	"context"
	"runtime"
	"sync"
)

var registerOnce sync.Once

// registerDrivers 注册全部GDAL/OGR驱动，只执行一次
func registerDrivers() {
	registerOnce.Do(func() {
		C.GDALAllRegister()
		C.OGRRegisterAll()
	})
}

// GDALWorkerPool GDAL工作池 - 控制并发数量
type GDALWorkerPool struct {
	semaphore chan struct{}
	size      int
}

var (
	gdalPool     *GDALWorkerPool
	gdalPoolOnce sync.Once
)

// NewGDALWorkerPool 创建指定大小的工作池，size<=0 时按CPU核心数计算
func NewGDALWorkerPool(size int) *GDALWorkerPool {
	if size <= 0 {
		size = runtime.NumCPU() * 2
		if size < 4 {
			size = 4
		}
		if size > 16 {
			size = 16 // 上限，避免GDAL资源竞争
		}
	}
	return &GDALWorkerPool{
		semaphore: make(chan struct{}, size),
		size:      size,
	}
}

// GetGDALPool 获取默认GDAL工作池
func GetGDALPool() *GDALWorkerPool {
	gdalPoolOnce.Do(func() {
		gdalPool = NewGDALWorkerPool(0)
	})
	return gdalPool
}

// Size 工作槽数量
func (p *GDALWorkerPool) Size() int { return p.size }

// Acquire 获取工作槽
func (p *GDALWorkerPool) Acquire() {
	p.semaphore <- struct{}{}
}

// Release 释放工作槽
func (p *GDALWorkerPool) Release() {
	<-p.semaphore
}

// AcquireContext 获取工作槽，ctx 取消时放弃等待
func (p *GDALWorkerPool) AcquireContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Execute 在工作池中执行GDAL操作
func (p *GDALWorkerPool) Execute(fn func() error) error {
	p.Acquire()
	defer p.Release()
	return fn()
}

// ExecuteContext 同 Execute，等待工作槽期间响应 ctx 取消
func (p *GDALWorkerPool) ExecuteContext(ctx context.Context, fn func() error) error {
	if err := p.AcquireContext(ctx); err != nil {
		return err
	}
	defer p.Release()
	return fn()
}

// lastError 读取并清除GDAL最近一次错误信息
func lastError() string {
	msg := C.GoString(C.CPLGetLastErrorMsg())
	C.CPLErrorReset()
	return msg
}
