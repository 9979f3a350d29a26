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
	"fmt"

	"github.com/GrainArc/Godomain/border"
	"github.com/GrainArc/Godomain/catalog"
)

// Record 转为目录记录，含尺寸、仿射变换、投影和边界WKT
func (d *Domain) Record() (catalog.Record, error) {
	s := d.Size()
	rec := catalog.Record{
		Name:       d.name,
		SRS:        d.srs,
		Width:      s.Width,
		Height:     s.Height,
		Projection: d.Projection(),
	}
	if d.extent != nil {
		rec.Extent = d.extent.String()
	}
	if gt, ok := d.GeoTransform(); ok {
		rec.GeoTransform = gt
	}
	wkt, err := d.BorderWKT(border.DefaultPoints)
	if err != nil {
		return rec, err
	}
	rec.BorderWKT = wkt
	return rec, nil
}

// SaveDomain 把Domain写入目录，返回记录ID
func SaveDomain(c *catalog.Catalog, d *Domain) (string, error) {
	rec, err := d.Record()
	if err != nil {
		return "", err
	}
	if err := c.Put(&rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// OpenRecord 由目录记录重建Domain
func OpenRecord(rec *catalog.Record, opts ...Option) (*Domain, error) {
	if rec.SRS == "" || rec.Extent == "" {
		return nil, fmt.Errorf("%w: record %s has no srs and extent", ErrOptions, rec.ID)
	}
	opts = append([]Option{WithName(rec.Name)}, opts...)
	return NewDomainFromExtent(rec.SRS, rec.Extent, opts...)
}
