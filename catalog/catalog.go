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

// Package catalog stores named domain definitions in a SQLite database and
// reads XML domain lists.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GrainArc/Godomain/extent"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("catalog: domain not found")

// Record 一条Domain定义
type Record struct {
	ID           string              `gorm:"primaryKey;size:36" json:"id"`
	Name         string              `gorm:"index" json:"name"`
	SRS          string              `json:"srs"`
	Extent       string              `json:"extent"`
	Width        int                 `json:"width"`
	Height       int                 `json:"height"`
	GeoTransform extent.GeoTransform `gorm:"type:text;serializer:json" json:"geo_transform"`
	Projection   string              `json:"projection"`
	BorderWKT    string              `json:"border_wkt"`
	CreatedAt    time.Time           `json:"created_at"`
}

func (Record) TableName() string { return "domains" }

// Catalog Domain目录
type Catalog struct {
	db     *gorm.DB
	logger *log.Logger
}

// Open 打开（必要时创建）SQLite目录
func Open(path string, logger *log.Logger) (*Catalog, error) {
	if logger == nil {
		logger = log.Default()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("catalog: migrate: %w", err)
	}
	logger.Debug("catalog opened", "path", path)
	return &Catalog{db: db, logger: logger}, nil
}

// Close 关闭数据库连接
func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Put 新增或更新记录
//
// ID 为空时生成UUID。范围字符串必须合法；使用 -te 时重新推导仿射变换和栅格尺寸，
// 其他范围（如 -lle）在范围改变后清空旧的尺寸和仿射变换。
func (c *Catalog) Put(rec *Record) error {
	if rec.Extent != "" {
		spec, err := extent.Parse(rec.Extent)
		if err != nil {
			return err
		}
		if spec.Has(extent.TE) {
			gt, size, err := extent.Derive(spec)
			if err != nil {
				return err
			}
			rec.GeoTransform = gt
			rec.Width, rec.Height = size.Width, size.Height
		} else if rec.ID != "" {
			if err := c.dropStaleGeometry(rec); err != nil {
				return err
			}
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := c.db.Save(rec).Error; err != nil {
		return fmt.Errorf("catalog: save %s: %w", rec.ID, err)
	}
	c.logger.Debug("domain saved", "id", rec.ID, "name", rec.Name)
	return nil
}

// dropStaleGeometry 已存记录的范围与 rec 不同时清空尺寸和仿射变换
func (c *Catalog) dropStaleGeometry(rec *Record) error {
	var old Record
	err := c.db.Select("extent").First(&old, "id = ?", rec.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog: get %s: %w", rec.ID, err)
	}
	if old.Extent != rec.Extent {
		c.logger.Debug("extent changed, dropping derived size", "id", rec.ID)
		rec.Width, rec.Height = 0, 0
		rec.GeoTransform = extent.GeoTransform{}
	}
	return nil
}

// Get 按ID查询
func (c *Catalog) Get(id string) (*Record, error) {
	var rec Record
	err := c.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	return &rec, nil
}

// FindByName 按名称查询，按创建时间排序
func (c *Catalog) FindByName(name string) ([]Record, error) {
	var recs []Record
	if err := c.db.Where("name = ?", name).Order("created_at").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("catalog: find %q: %w", name, err)
	}
	return recs, nil
}

// List 全部记录，按创建时间排序
func (c *Catalog) List() ([]Record, error) {
	var recs []Record
	if err := c.db.Order("created_at").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return recs, nil
}

// Delete 删除记录
func (c *Catalog) Delete(id string) error {
	res := c.db.Delete(&Record{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
