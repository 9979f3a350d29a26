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

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/GrainArc/Godomain/border"
	"github.com/GrainArc/Godomain/catalog"
	"github.com/GrainArc/Godomain/kml"
)

// Placemark 边界的KML多边形，名称为空时使用Domain名称
func (d *Domain) Placemark(name string) (kml.Placemark, error) {
	if name == "" {
		name = d.name
	}
	lon, lat, err := d.Border(border.DefaultPoints)
	if err != nil {
		return kml.Placemark{}, err
	}
	return kml.BorderPlacemark(name, lon, lat)
}

// WriteKML 把一个或多个Domain的边界写入KML文件
func WriteKML(path string, domains ...*Domain) error {
	if len(domains) == 0 {
		return fmt.Errorf("%w: no domains to write", ErrOptions)
	}
	placemarks := make([]kml.Placemark, 0, len(domains))
	for i, d := range domains {
		name := d.name
		if name == "" {
			name = fmt.Sprintf("domain%d", i)
		}
		pm, err := d.Placemark(name)
		if err != nil {
			return err
		}
		placemarks = append(placemarks, pm)
	}
	return kml.NewDocument(filepath.Base(path), placemarks...).WriteFile(path)
}

// WriteKML 把边界写入KML文件
func (d *Domain) WriteKML(path string) error {
	return WriteKML(path, d)
}

// WriteKMLImage 生成把图片贴到Domain四角范围上的KML
//
// figurePath 原样写入 href（通常相对KML文件），名称取KML文件名。
func (d *Domain) WriteKMLImage(kmlPath, figurePath string) error {
	if figurePath == "" {
		return fmt.Errorf("%w: figure path is required", ErrOptions)
	}
	lon, lat, err := d.Corners()
	if err != nil {
		return err
	}
	bound, err := border.Corners(lon, lat)
	if err != nil {
		return err
	}
	return kml.NewGroundOverlay(filepath.Base(kmlPath), figurePath, bound).WriteFile(kmlPath)
}

// WriteKMLFromList 读取XML列表中的全部Domain并把边界写入同一个KML文件
func WriteKMLFromList(xmlPath, kmlPath string, logger *log.Logger) error {
	list, err := catalog.LoadDomainList(xmlPath)
	if err != nil {
		return err
	}
	params := make([]Params, len(list.Domains))
	for i, e := range list.Domains {
		params[i] = Params{SRS: e.SRS, Extent: e.Extent, Name: e.Name, Logger: logger}
	}
	domains, err := NewDomains(context.Background(), params)
	if err != nil {
		return err
	}
	defer func() {
		for _, d := range domains {
			d.Close()
		}
	}()
	return WriteKML(kmlPath, domains...)
}
