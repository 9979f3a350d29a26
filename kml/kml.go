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

// Package kml renders domain borders and image overlays as KML 2.2 for
// Google Earth.
package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb"
)

const Namespace = "http://www.opengis.net/kml/2.2"

// KML 文档根节点
type KML struct {
	XMLName       xml.Name       `xml:"kml"`
	Xmlns         string         `xml:"xmlns,attr"`
	XmlnsGx       string         `xml:"xmlns:gx,attr"`
	XmlnsKml      string         `xml:"xmlns:kml,attr"`
	XmlnsAtom     string         `xml:"xmlns:atom,attr"`
	Document      *Document      `xml:"Document,omitempty"`
	GroundOverlay *GroundOverlay `xml:"GroundOverlay,omitempty"`
}

type Document struct {
	Name   string `xml:"name"`
	Folder Folder `xml:"Folder"`
}

type Folder struct {
	Name       string      `xml:"name"`
	Open       int         `xml:"open"`
	Placemarks []Placemark `xml:"Placemark"`
}

type Placemark struct {
	Name    string  `xml:"name"`
	Style   Style   `xml:"Style"`
	Polygon Polygon `xml:"Polygon"`
}

type Style struct {
	LineColor string `xml:"LineStyle>color"`
	PolyFill  int    `xml:"PolyStyle>fill"`
}

type Polygon struct {
	Tessellate  int    `xml:"tessellate"`
	Coordinates string `xml:"outerBoundaryIs>LinearRing>coordinates"`
}

type GroundOverlay struct {
	Name      string    `xml:"name"`
	Icon      Icon      `xml:"Icon"`
	LatLonBox LatLonBox `xml:"LatLonBox"`
}

type Icon struct {
	Href           string  `xml:"href"`
	ViewBoundScale float64 `xml:"viewBoundScale"`
}

type LatLonBox struct {
	North float64 `xml:"north"`
	South float64 `xml:"south"`
	East  float64 `xml:"east"`
	West  float64 `xml:"west"`
}

func newKML() *KML {
	return &KML{
		Xmlns:     Namespace,
		XmlnsGx:   "http://www.google.com/kml/ext/2.2",
		XmlnsKml:  Namespace,
		XmlnsAtom: "http://www.w3.org/2005/Atom",
	}
}

// Coordinates 经纬度序列转为 "lon,lat,0 lon,lat,0 ..." 形式
func Coordinates(lon, lat []float64) (string, error) {
	if len(lon) != len(lat) {
		return "", fmt.Errorf("kml: %d longitudes but %d latitudes", len(lon), len(lat))
	}
	var b strings.Builder
	for i := range lon {
		fmt.Fprintf(&b, "%f,%f,0 ", lon[i], lat[i])
	}
	return b.String(), nil
}

// BorderPlacemark 以白色轮廓、无填充的多边形表示边界
func BorderPlacemark(name string, lon, lat []float64) (Placemark, error) {
	coords, err := Coordinates(lon, lat)
	if err != nil {
		return Placemark{}, err
	}
	return Placemark{
		Name:    name,
		Style:   Style{LineColor: "ffffffff", PolyFill: 0},
		Polygon: Polygon{Tessellate: 1, Coordinates: coords},
	}, nil
}

// NewDocument 含一个文件夹的边界文档
func NewDocument(name string, placemarks ...Placemark) *KML {
	k := newKML()
	k.Document = &Document{
		Name:   name,
		Folder: Folder{Name: name, Open: 1, Placemarks: placemarks},
	}
	return k
}

// NewGroundOverlay 把图片 href 贴到经纬度范围 bound 上
func NewGroundOverlay(name, href string, bound orb.Bound) *KML {
	k := newKML()
	k.GroundOverlay = &GroundOverlay{
		Name: name,
		Icon: Icon{Href: href, ViewBoundScale: 0.75},
		LatLonBox: LatLonBox{
			North: bound.Max[1],
			South: bound.Min[1],
			East:  bound.Max[0],
			West:  bound.Min[0],
		},
	}
	return k
}

// Encode 写出带XML声明的缩进文档
func (k *KML) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(k); err != nil {
		return fmt.Errorf("kml: encode: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile 写入KML文件
func (k *KML) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kml: create %s: %w", path, err)
	}
	if err := k.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
