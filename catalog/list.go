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

package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/GrainArc/Godomain/extent"
)

// DomainList XML格式的Domain列表
//
//	<domains srs="EPSG:4326">
//	    <domain name="north" ext="-lle -10 50 10 80 -ts 500 500"/>
//	    <domain name="utm" srs="EPSG:32633" ext="-te 300000 6000000 400000 6100000 -tr 1000 1000"/>
//	</domains>
type DomainList struct {
	XMLName xml.Name    `xml:"domains"`
	SRS     string      `xml:"srs,attr"`
	Domains []ListEntry `xml:"domain"`
}

// ListEntry 单个Domain，srs 为空时使用列表的 srs
type ListEntry struct {
	Name   string `xml:"name,attr"`
	SRS    string `xml:"srs,attr"`
	Extent string `xml:"ext,attr"`
}

// LoadDomainList 读取XML列表文件
func LoadDomainList(path string) (*DomainList, error) {
	xmlFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open domain list: %w", err)
	}
	defer xmlFile.Close()
	return DecodeDomainList(xmlFile)
}

// DecodeDomainList 解析XML列表，校验每个范围字符串并补全 srs
func DecodeDomainList(r io.Reader) (*DomainList, error) {
	var list DomainList
	if err := xml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("catalog: decode domain list: %w", err)
	}
	for i := range list.Domains {
		e := &list.Domains[i]
		if e.SRS == "" {
			e.SRS = list.SRS
		}
		if _, err := extent.Parse(e.Extent); err != nil {
			return nil, fmt.Errorf("catalog: domain %d (%s): %w", i, e.Name, err)
		}
		if e.Name == "" {
			e.Name = e.Extent
		}
	}
	return &list, nil
}

// Import 把列表中的全部Domain写入目录
func (l *DomainList) Import(c *Catalog) ([]Record, error) {
	recs := make([]Record, 0, len(l.Domains))
	for _, e := range l.Domains {
		rec := Record{Name: e.Name, SRS: e.SRS, Extent: e.Extent}
		if err := c.Put(&rec); err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
