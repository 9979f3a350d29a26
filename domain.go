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

static GDALDatasetH godomainCreateMem(int w, int h) {
    GDALDriverH hDriver = GDALGetDriverByName("MEM");
    if (hDriver == NULL) {
        return NULL;
    }
    return GDALCreate(hDriver, "", w, h, 0, GDT_Byte, NULL);
}

// 复制地理参考：仿射变换、投影、GCP和GEOLOCATION元数据
static void godomainCopyGeoreference(GDALDatasetH hDst, GDALDatasetH hSrc) {
    double gt[6];
    if (GDALGetGeoTransform(hSrc, gt) == CE_None) {
        GDALSetGeoTransform(hDst, gt);
    }
    const char *proj = GDALGetProjectionRef(hSrc);
    if (proj != NULL && proj[0] != '\0') {
        GDALSetProjection(hDst, proj);
    }
    int nGCP = GDALGetGCPCount(hSrc);
    if (nGCP > 0) {
        GDALSetGCPs(hDst, nGCP, GDALGetGCPs(hSrc), GDALGetGCPProjection(hSrc));
    }
    char **md = GDALGetMetadata(hSrc, "GEOLOCATION");
    if (md != NULL) {
        GDALSetMetadata(hDst, md, "GEOLOCATION");
    }
}

// 把经纬度网格写入两波段GeoTIFF
static int godomainWriteGeoloc(const char *path, int w, int h, double *lon, double *lat) {
    GDALDriverH hDriver = GDALGetDriverByName("GTiff");
    if (hDriver == NULL) {
        return 0;
    }
    GDALDatasetH hDS = GDALCreate(hDriver, path, w, h, 2, GDT_Float64, NULL);
    if (hDS == NULL) {
        return 0;
    }
    int ok = GDALRasterIO(GDALGetRasterBand(hDS, 1), GF_Write, 0, 0, w, h, lon, w, h, GDT_Float64, 0, 0) == CE_None &&
             GDALRasterIO(GDALGetRasterBand(hDS, 2), GF_Write, 0, 0, w, h, lat, w, h, GDT_Float64, 0, 0) == CE_None;
    GDALClose(hDS);
    return ok;
}

static void godomainSetGeoloc(GDALDatasetH hDS, const char *path, const char *srs) {
    GDALSetMetadataItem(hDS, "SRS", srs, "GEOLOCATION");
    GDALSetMetadataItem(hDS, "X_DATASET", path, "GEOLOCATION");
    GDALSetMetadataItem(hDS, "X_BAND", "1", "GEOLOCATION");
    GDALSetMetadataItem(hDS, "Y_DATASET", path, "GEOLOCATION");
    GDALSetMetadataItem(hDS, "Y_BAND", "2", "GEOLOCATION");
    GDALSetMetadataItem(hDS, "PIXEL_OFFSET", "0", "GEOLOCATION");
    GDALSetMetadataItem(hDS, "LINE_OFFSET", "0", "GEOLOCATION");
    GDALSetMetadataItem(hDS, "PIXEL_STEP", "1", "GEOLOCATION");
    GDALSetMetadataItem(hDS, "LINE_STEP", "1", "GEOLOCATION");
}
*/
import "C"

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/GrainArc/Godomain/extent"
)

const geolocationDomain = "GEOLOCATION"

// Domain 栅格的地理参考
//
// 内部是一个没有波段的GDAL内存数据集，只保存宽高、仿射变换和投影，
// 或GCP，或GEOLOCATION经纬度数组。
type Domain struct {
	mu      sync.Mutex
	dataset C.GDALDatasetH
	name    string
	srs     string
	extent  *extent.Spec
	vsiPath string // 经纬度网格所在的 /vsimem 文件
	logger  *log.Logger
}

// Params 创建Domain的参数
//
// 可用组合：
//   - Dataset：复制数据集的地理参考
//   - Dataset + SRS：自动重投影到SRS后复制
//   - SRS + Extent：由范围字符串创建
//   - Lon + Lat：由经纬度网格创建
type Params struct {
	SRS     string      // EPSG / Proj4 / WKT
	Extent  string      // 如 "-te 100 2000 300 10000 -tr 300 200"
	Dataset string      // 栅格文件路径
	Lon     [][]float64 // 经度网格
	Lat     [][]float64 // 纬度网格
	Name    string
	Logger  *log.Logger
}

// Option 构造选项
type Option func(*Params)

// WithName 设置名称
func WithName(name string) Option {
	return func(p *Params) { p.Name = name }
}

// WithLogger 注入日志
func WithLogger(logger *log.Logger) Option {
	return func(p *Params) { p.Logger = logger }
}

func defaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Prefix: "godomain", Level: log.WarnLevel})
}

// NewDomainFromExtent 由空间参考和范围字符串创建
func NewDomainFromExtent(srs, ext string, opts ...Option) (*Domain, error) {
	return New(apply(Params{SRS: srs, Extent: ext}, opts))
}

// NewDomainFromDataset 复制栅格文件的地理参考
func NewDomainFromDataset(path string, opts ...Option) (*Domain, error) {
	return New(apply(Params{Dataset: path}, opts))
}

// NewDomainFromDatasetSRS 把栅格文件自动重投影到 srs 后复制其地理参考
func NewDomainFromDatasetSRS(path, srs string, opts ...Option) (*Domain, error) {
	return New(apply(Params{Dataset: path, SRS: srs}, opts))
}

// NewDomainFromLonLat 由经纬度网格创建
func NewDomainFromLonLat(lon, lat [][]float64, opts ...Option) (*Domain, error) {
	return New(apply(Params{Lon: lon, Lat: lat}, opts))
}

func apply(p Params, opts []Option) Params {
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// New 按参数组合创建Domain
func New(p Params) (*Domain, error) {
	registerDrivers()
	if p.Logger == nil {
		p.Logger = defaultLogger()
	}
	p.Logger.Debug("create domain", "dataset", p.Dataset, "srs", p.SRS, "ext", p.Extent)

	var (
		d   *Domain
		err error
	)
	switch {
	case p.Dataset != "" && p.SRS != "" && p.Extent != "":
		return nil, fmt.Errorf("%w: ambiguous specification of dataset, srs and extent", ErrOptions)
	case p.Dataset != "" && p.SRS == "":
		d, err = newFromDataset(p)
	case p.Dataset != "":
		d, err = newFromWarpedDataset(p)
	case p.SRS != "" && p.Extent != "":
		d, err = newFromExtent(p)
	case p.Lon != nil && p.Lat != nil:
		d, err = newFromLonLat(p)
	default:
		return nil, fmt.Errorf("%w: \"dataset\" or \"srs and extent\" or \"dataset and srs\" or \"lon and lat\" are required", ErrOptions)
	}
	if err != nil {
		return nil, err
	}

	d.name = p.Name
	d.srs = p.SRS
	d.logger = p.Logger
	runtime.SetFinalizer(d, (*Domain).Close)
	d.logger.Debug("domain created", "name", d.name, "width", d.width(), "height", d.height())
	return d, nil
}

func newFromExtent(p Params) (*Domain, error) {
	srs, err := ParseSpatialReference(p.SRS)
	if err != nil {
		return nil, err
	}
	spec, err := extent.Parse(p.Extent)
	if err != nil {
		return nil, err
	}

	// -lle 转为目标坐标系下的 -te
	if spec.Has(extent.LLE) {
		ct, err := NewCoordinateTransformation(SRS_WGS84, srs)
		if err != nil {
			return nil, err
		}
		spec, err = extent.ConvertLonLat(spec, ct)
		ct.Close()
		if err != nil {
			return nil, err
		}
	}

	gt, size, err := extent.Derive(spec)
	if err != nil {
		return nil, err
	}
	wkt, err := srs.ExportWKT()
	if err != nil {
		return nil, err
	}

	ds := C.godomainCreateMem(C.int(size.Width), C.int(size.Height))
	if ds == nil {
		return nil, fmt.Errorf("failed to create MEM dataset %dx%d: %s", size.Width, size.Height, lastError())
	}
	cgt := [6]C.double{}
	for i, v := range gt {
		cgt[i] = C.double(v)
	}
	C.GDALSetGeoTransform(ds, &cgt[0])
	cWKT := C.CString(wkt)
	defer C.free(unsafe.Pointer(cWKT))
	C.GDALSetProjection(ds, cWKT)

	return &Domain{dataset: ds, extent: spec}, nil
}

func newFromDataset(p Params) (*Domain, error) {
	src, err := openDataset(p.Dataset)
	if err != nil {
		return nil, err
	}
	defer C.GDALClose(src)
	return copyDataset(src)
}

func newFromWarpedDataset(p Params) (*Domain, error) {
	srs, err := ParseSpatialReference(p.SRS)
	if err != nil {
		return nil, err
	}
	wkt, err := srs.ExportWKT()
	if err != nil {
		return nil, err
	}
	src, err := openDataset(p.Dataset)
	if err != nil {
		return nil, err
	}
	defer C.GDALClose(src)

	cWKT := C.CString(wkt)
	defer C.free(unsafe.Pointer(cWKT))
	warped := C.GDALAutoCreateWarpedVRT(src, nil, cWKT, C.GRA_NearestNeighbour, 0.125, nil)
	if warped == nil {
		return nil, fmt.Errorf("%w: could not warp %s to %s: %s", ErrProjection, p.Dataset, srs, lastError())
	}
	defer C.GDALClose(warped)
	return copyDataset(warped)
}

func newFromLonLat(p Params) (*Domain, error) {
	rows, cols, err := gridShape(p.Lon, p.Lat)
	if err != nil {
		return nil, err
	}
	lon := make([]float64, 0, rows*cols)
	lat := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		lon = append(lon, p.Lon[r]...)
		lat = append(lat, p.Lat[r]...)
	}

	path := fmt.Sprintf("/vsimem/godomain_%s_geoloc.tif", uuid.NewString())
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	ok := C.godomainWriteGeoloc(cPath, C.int(cols), C.int(rows),
		(*C.double)(unsafe.Pointer(&lon[0])),
		(*C.double)(unsafe.Pointer(&lat[0])))
	if ok == 0 {
		C.VSIUnlink(cPath)
		return nil, fmt.Errorf("failed to write geolocation arrays: %s", lastError())
	}

	wkt, err := SRS_WGS84.ExportWKT()
	if err != nil {
		C.VSIUnlink(cPath)
		return nil, err
	}
	ds := C.godomainCreateMem(C.int(cols), C.int(rows))
	if ds == nil {
		C.VSIUnlink(cPath)
		return nil, fmt.Errorf("failed to create MEM dataset %dx%d: %s", cols, rows, lastError())
	}
	cWKT := C.CString(wkt)
	defer C.free(unsafe.Pointer(cWKT))
	C.godomainSetGeoloc(ds, cPath, cWKT)

	return &Domain{dataset: ds, vsiPath: path}, nil
}

func gridShape(lon, lat [][]float64) (rows, cols int, err error) {
	rows = len(lon)
	if rows == 0 || rows != len(lat) || len(lon[0]) == 0 {
		return 0, 0, fmt.Errorf("%w: lon and lat grids must be non-empty and of equal shape", ErrOptions)
	}
	cols = len(lon[0])
	for r := 0; r < rows; r++ {
		if len(lon[r]) != cols || len(lat[r]) != cols {
			return 0, 0, fmt.Errorf("%w: lon and lat grids must be non-empty and of equal shape", ErrOptions)
		}
	}
	return rows, cols, nil
}

func openDataset(path string) (C.GDALDatasetH, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	ds := C.GDALOpen(cPath, C.GA_ReadOnly)
	if ds == nil {
		return nil, fmt.Errorf("failed to open dataset %s: %s", path, lastError())
	}
	return ds, nil
}

func copyDataset(src C.GDALDatasetH) (*Domain, error) {
	w := C.GDALGetRasterXSize(src)
	h := C.GDALGetRasterYSize(src)
	ds := C.godomainCreateMem(w, h)
	if ds == nil {
		return nil, fmt.Errorf("failed to create MEM dataset %dx%d: %s", int(w), int(h), lastError())
	}
	C.godomainCopyGeoreference(ds, src)
	return &Domain{dataset: ds}, nil
}

// Close 释放数据集和临时文件
func (d *Domain) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dataset != nil {
		C.GDALClose(d.dataset)
		d.dataset = nil
	}
	if d.vsiPath != "" {
		cPath := C.CString(d.vsiPath)
		C.VSIUnlink(cPath)
		C.free(unsafe.Pointer(cPath))
		d.vsiPath = ""
	}
}

// Name 名称
func (d *Domain) Name() string { return d.name }

// SRS 创建时给定的空间参考字符串
func (d *Domain) SRS() string { return d.srs }

// ExtentSpec 由范围字符串创建时的范围参数（lle 已补充 te），否则为 nil
func (d *Domain) ExtentSpec() *extent.Spec { return d.extent }

func (d *Domain) width() int  { return int(C.GDALGetRasterXSize(d.dataset)) }
func (d *Domain) height() int { return int(C.GDALGetRasterYSize(d.dataset)) }

// Size 宽、高（像素）
func (d *Domain) Size() extent.RasterSize {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dataset == nil {
		return extent.RasterSize{}
	}
	return extent.RasterSize{Width: d.width(), Height: d.height()}
}

// Shape 类似numpy的形状 (行数, 列数)
func (d *Domain) Shape() (rows, cols int) {
	s := d.Size()
	return s.Height, s.Width
}

// GeoTransform 仿射变换，没有时 ok 为 false
func (d *Domain) GeoTransform() (gt extent.GeoTransform, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dataset == nil {
		return gt, false
	}
	var cgt [6]C.double
	if C.GDALGetGeoTransform(d.dataset, &cgt[0]) != C.CE_None {
		return gt, false
	}
	for i := range cgt {
		gt[i] = float64(cgt[i])
	}
	return gt, true
}

// Projection 数据集投影WKT；只有GCP时返回GCP投影
func (d *Domain) Projection() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dataset == nil {
		return ""
	}
	proj := C.GoString(C.GDALGetProjectionRef(d.dataset))
	if proj == "" && C.GDALGetGCPCount(d.dataset) > 0 {
		proj = C.GoString(C.GDALGetGCPProjection(d.dataset))
	}
	if proj == "" {
		proj = d.metadataItem("SRS", geolocationDomain)
	}
	return proj
}

// HasGCPs 是否以GCP定义地理参考
func (d *Domain) HasGCPs() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dataset != nil && C.GDALGetGCPCount(d.dataset) > 0
}

// HasGeolocation 是否带GEOLOCATION经纬度数组
func (d *Domain) HasGeolocation() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dataset != nil && d.metadataItem("X_DATASET", geolocationDomain) != ""
}

// metadataItem 调用方持有锁
func (d *Domain) metadataItem(key, domain string) string {
	cKey := C.CString(key)
	defer C.free(unsafe.Pointer(cKey))
	cDomain := C.CString(domain)
	defer C.free(unsafe.Pointer(cDomain))
	v := C.GDALGetMetadataItem(C.GDALMajorObjectH(d.dataset), cKey, cDomain)
	if v == nil {
		return ""
	}
	return C.GoString(v)
}

// String 尺寸、投影和四角经纬度
func (d *Domain) String() string {
	const separator = "----------------------------------------\n"
	rows, cols := d.Shape()

	var b strings.Builder
	fmt.Fprintf(&b, "Domain:[%d x %d]\n", cols, rows)
	b.WriteString(separator)
	b.WriteString("Projection:\n")
	if proj := d.Projection(); proj != "" {
		if srs, err := ParseSpatialReference(proj); err == nil {
			pretty, _ := srs.ExportPrettyWKT()
			b.WriteString(pretty)
		}
	}
	b.WriteString("\n")
	b.WriteString(separator)
	b.WriteString("Corners (lon, lat):\n")
	lon, lat, err := d.Corners()
	if err != nil {
		b.WriteString("\t" + err.Error() + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\t (%6.2f, %6.2f)  (%6.2f, %6.2f)\n", lon[0], lat[0], lon[2], lat[2])
	fmt.Fprintf(&b, "\t (%6.2f, %6.2f)  (%6.2f, %6.2f)\n", lon[1], lat[1], lon[3], lat[3])
	return b.String()
}
