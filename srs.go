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
#include "osgeo_utils.h"
*/
import "C"
import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"
)

type SRSType int

const (
	SRSTypeGeographic SRSType = iota // 地理坐标系
	SRSTypeProjected                 // 投影坐标系
)

// SpatialReference 空间参考系统
//
// 按 EPSG > WKT > Proj4 的优先级转换为OSR对象。
type SpatialReference struct {
	EPSG        int     // EPSG代码
	Name        string  // 坐标系名称
	Type        SRSType // 坐标系类型
	Description string  // 描述信息
	WKT         string  // WKT定义（可选）
	Proj4       string  // Proj4定义（可选）
}

// 预定义坐标系
var (
	// WGS84 地理坐标系，经纬度默认参考
	SRS_WGS84 = &SpatialReference{
		EPSG:        4326,
		Name:        "WGS 84",
		Type:        SRSTypeGeographic,
		Description: "WGS 84 地理坐标系",
	}
	// CGCS2000 地理坐标系
	SRS_CGCS2000 = &SpatialReference{
		EPSG:        4490,
		Name:        "China Geodetic Coordinate System 2000",
		Type:        SRSTypeGeographic,
		Description: "中国2000国家大地坐标系（地理坐标系）",
	}
	// Web墨卡托
	SRS_WebMercator = &SpatialReference{
		EPSG:        3857,
		Name:        "WGS 84 / Pseudo-Mercator",
		Type:        SRSTypeProjected,
		Description: "Web墨卡托投影",
	}
)

// NewSpatialReferenceFromEPSG 根据EPSG代码创建空间参考
func NewSpatialReferenceFromEPSG(epsg int) *SpatialReference {
	return &SpatialReference{
		EPSG:        epsg,
		Name:        fmt.Sprintf("EPSG:%d", epsg),
		Type:        SRSTypeProjected,
		Description: fmt.Sprintf("EPSG代码: %d", epsg),
	}
}

// NewSpatialReferenceFromWKT 根据WKT创建空间参考
func NewSpatialReferenceFromWKT(wkt string, name string) *SpatialReference {
	return &SpatialReference{
		Name:        name,
		Type:        SRSTypeProjected,
		Description: "自定义WKT坐标系",
		WKT:         wkt,
	}
}

// NewSpatialReferenceFromProj4 根据Proj4创建空间参考
func NewSpatialReferenceFromProj4(proj4 string, name string) *SpatialReference {
	return &SpatialReference{
		Name:        name,
		Type:        SRSTypeProjected,
		Description: "自定义Proj4坐标系",
		Proj4:       proj4,
	}
}

// ParseSpatialReference 解析 "EPSG:3857"、"4326"、Proj4 或 WKT 字符串
//
// 空字符串返回WGS84。坐标系类型由OSR判定。
func ParseSpatialReference(s string) (*SpatialReference, error) {
	s = strings.TrimSpace(s)
	var srs *SpatialReference
	switch {
	case s == "":
		return SRS_WGS84, nil
	case len(s) > 5 && strings.EqualFold(s[:5], "EPSG:"):
		code, err := strconv.Atoi(s[5:])
		if err != nil {
			return nil, fmt.Errorf("%w: bad EPSG code %q", ErrProjection, s)
		}
		srs = NewSpatialReferenceFromEPSG(code)
	case isDigits(s):
		code, _ := strconv.Atoi(s)
		srs = NewSpatialReferenceFromEPSG(code)
	case strings.HasPrefix(s, "+"):
		srs = NewSpatialReferenceFromProj4(s, "")
	default:
		srs = NewSpatialReferenceFromWKT(s, "")
	}

	h, err := srs.toOGR()
	if err != nil {
		return nil, err
	}
	defer C.OSRDestroySpatialReference(h)

	if C.OSRIsProjected(h) == 0 {
		srs.Type = SRSTypeGeographic
	}
	if srs.Name == "" {
		if name := C.OSRGetName(h); name != nil {
			srs.Name = C.GoString(name)
		}
	}
	return srs, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// toOGR 转换为OSR句柄，调用方负责 OSRDestroySpatialReference
//
// 轴顺序固定为传统GIS顺序（经度在前）。
func (srs *SpatialReference) toOGR() (C.OGRSpatialReferenceH, error) {
	registerDrivers()
	ogrSRS := C.OSRNewSpatialReference(nil)
	if ogrSRS == nil {
		return nil, fmt.Errorf("%w: 无法创建OGRSpatialReference", ErrProjection)
	}
	var result C.OGRErr = C.OGRERR_FAILURE
	// 优先使用EPSG
	if srs.EPSG > 0 {
		result = C.OSRImportFromEPSG(ogrSRS, C.int(srs.EPSG))
	}
	// 尝试使用WKT
	if result != C.OGRERR_NONE && srs.WKT != "" {
		cWKT := C.CString(srs.WKT)
		defer C.free(unsafe.Pointer(cWKT))
		// OSRImportFromWkt 会移动指针，需传入副本
		p := cWKT
		result = C.OSRImportFromWkt(ogrSRS, &p)
	}
	// 尝试使用Proj4
	if result != C.OGRERR_NONE && srs.Proj4 != "" {
		cProj4 := C.CString(srs.Proj4)
		defer C.free(unsafe.Pointer(cProj4))
		result = C.OSRImportFromProj4(ogrSRS, cProj4)
	}
	if result != C.OGRERR_NONE {
		C.OSRDestroySpatialReference(ogrSRS)
		return nil, fmt.Errorf("%w: 无法创建空间参考系统: EPSG=%d, Name=%s", ErrProjection, srs.EPSG, srs.Name)
	}
	C.OSRSetAxisMappingStrategy(ogrSRS, C.OAMS_TRADITIONAL_GIS_ORDER)
	return ogrSRS, nil
}

// ExportWKT 导出WKT
func (srs *SpatialReference) ExportWKT() (string, error) {
	return srs.export(false)
}

// ExportPrettyWKT 导出带缩进的WKT
func (srs *SpatialReference) ExportPrettyWKT() (string, error) {
	return srs.export(true)
}

func (srs *SpatialReference) export(pretty bool) (string, error) {
	h, err := srs.toOGR()
	if err != nil {
		return "", err
	}
	defer C.OSRDestroySpatialReference(h)

	var out *C.char
	var rc C.OGRErr
	if pretty {
		rc = C.OSRExportToPrettyWkt(h, &out, C.int(0))
	} else {
		rc = C.OSRExportToWkt(h, &out)
	}
	if out != nil {
		defer C.VSIFree(unsafe.Pointer(out))
	}
	if rc != C.OGRERR_NONE {
		return "", fmt.Errorf("%w: export WKT failed for %s", ErrProjection, srs)
	}
	return C.GoString(out), nil
}

// IsMetric 投影坐标系且线性单位为米
func (srs *SpatialReference) IsMetric() bool {
	h, err := srs.toOGR()
	if err != nil {
		return false
	}
	defer C.OSRDestroySpatialReference(h)
	if C.OSRIsProjected(h) == 0 {
		return false
	}
	var unit *C.char
	C.OSRGetLinearUnits(h, &unit)
	if unit == nil {
		return false
	}
	switch strings.ToLower(C.GoString(unit)) {
	case "metre", "meter", "m":
		return true
	}
	return false
}

// String 返回坐标系的字符串表示
func (srs *SpatialReference) String() string {
	typeStr := "地理坐标系"
	if srs.Type == SRSTypeProjected {
		typeStr = "投影坐标系"
	}
	return fmt.Sprintf("%s (EPSG:%d) - %s", srs.Name, srs.EPSG, typeStr)
}
