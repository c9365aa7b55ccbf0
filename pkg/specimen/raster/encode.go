package raster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// 出力形式
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// ErrUnsupportedFormat は未対応の出力形式を表します
var ErrUnsupportedFormat = errors.New("unsupported image format")

type encoderFunc func(w io.Writer, img image.Image, dpi float64) error

var encoders = map[string]encoderFunc{
	FormatPNG:  encodePNG,
	FormatJPEG: encodeJPEG,
	FormatGIF:  encodeGIF,
	FormatBMP:  encodeBMP,
	FormatTIFF: encodeTIFF,
}

var formatAliases = map[string]string{
	"jpg": FormatJPEG,
	"tif": FormatTIFF,
}

// NormalizeFormat は形式名を正規化します（"JPG" → "jpeg"）
func NormalizeFormat(format string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if alias, ok := formatAliases[f]; ok {
		f = alias
	}
	if _, ok := encoders[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return f, nil
}

// Formats は対応している形式名の一覧を返します
func Formats() []string {
	var out []string
	for f := range encoders {
		out = append(out, f)
	}
	for a := range formatAliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Encode は画像を指定形式でエンコードします
func Encode(w io.Writer, img image.Image, format string, dpi float64) error {
	f, err := NormalizeFormat(format)
	if err != nil {
		return err
	}
	if err := encoders[f](w, img, dpi); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

func encodePNG(w io.Writer, img image.Image, dpi float64) error {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return err
	}
	data := buf.Bytes()
	if dpi > 0 {
		data = insertPHYs(data, dpi)
	}
	_, err := w.Write(data)
	return err
}

func encodeJPEG(w io.Writer, img image.Image, dpi float64) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return err
	}
	data := buf.Bytes()
	if dpi > 0 {
		data = insertJFIF(data, dpi)
	}
	_, err := w.Write(data)
	return err
}

func encodeGIF(w io.Writer, img image.Image, _ float64) error {
	return gif.Encode(w, img, &gif.Options{NumColors: 256})
}

func encodeBMP(w io.Writer, img image.Image, _ float64) error {
	return bmp.Encode(w, img)
}

func encodeTIFF(w io.Writer, img image.Image, dpi float64) error {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return err
	}
	data := buf.Bytes()
	if dpi > 0 {
		setTIFFResolution(data, dpi)
	}
	_, err := w.Write(data)
	return err
}

// pngHeaderLen はシグネチャ（8バイト）と IHDR チャンク（25バイト）の長さです
const pngHeaderLen = 8 + 4 + 4 + 13 + 4

// insertPHYs は IHDR の直後に解像度（pHYs）チャンクを挿入します
func insertPHYs(data []byte, dpi float64) []byte {
	if len(data) < pngHeaderLen {
		return data
	}

	// 1インチ = 0.0254メートル
	ppm := uint32(math.Round(dpi / 0.0254))

	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // 単位: メートル
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:pngHeaderLen]...)
	out = append(out, chunk...)
	out = append(out, data[pngHeaderLen:]...)
	return out
}

// ReadPHYs はPNGデータの pHYs チャンクからDPIを読み取ります（なければ0）
func ReadPHYs(data []byte) float64 {
	pos := 8
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		if pos+8+length > len(data) {
			return 0
		}
		if typ == "pHYs" && length == 9 {
			body := data[pos+8 : pos+8+length]
			if body[8] != 1 {
				return 0
			}
			ppm := binary.BigEndian.Uint32(body[0:4])
			return float64(ppm) * 0.0254
		}
		if typ == "IDAT" {
			return 0
		}
		pos += 8 + length + 4
	}
	return 0
}

// insertJFIF は SOI の直後に解像度付きの JFIF APP0 セグメントを挿入します
func insertJFIF(data []byte, dpi float64) []byte {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return data
	}
	// 既に APP0 がある場合はそのまま
	if data[2] == 0xFF && data[3] == 0xE0 {
		return data
	}

	density := uint16(math.Min(math.Round(dpi), math.MaxUint16))

	seg := make([]byte, 2+16)
	seg[0], seg[1] = 0xFF, 0xE0
	binary.BigEndian.PutUint16(seg[2:4], 16)
	copy(seg[4:9], "JFIF\x00")
	seg[9], seg[10] = 1, 1 // バージョン 1.01
	seg[11] = 1            // 単位: インチ
	binary.BigEndian.PutUint16(seg[12:14], density)
	binary.BigEndian.PutUint16(seg[14:16], density)
	// サムネイルなし（seg[16], seg[17] = 0）

	out := make([]byte, 0, len(data)+len(seg))
	out = append(out, data[:2]...)
	out = append(out, seg...)
	out = append(out, data[2:]...)
	return out
}

// ReadJFIFDensity はJPEGデータの JFIF APP0 からDPIを読み取ります（なければ0）
func ReadJFIFDensity(data []byte) float64 {
	if len(data) < 20 || data[2] != 0xFF || data[3] != 0xE0 || string(data[6:11]) != "JFIF\x00" {
		return 0
	}
	if data[13] != 1 {
		return 0
	}
	return float64(binary.BigEndian.Uint16(data[14:16]))
}

// TIFF タグ
const (
	tiffTagXResolution    = 282
	tiffTagYResolution    = 283
	tiffTagResolutionUnit = 296
	tiffTypeShort         = 3
	tiffTypeRational      = 5
	tiffResolutionInch    = 2
)

// tiffIFD はTIFFのバイト順と最初のIFDの位置を返します
func tiffIFD(data []byte) (binary.ByteOrder, int, bool) {
	if len(data) < 8 {
		return nil, 0, false
	}
	var order binary.ByteOrder
	switch string(data[0:4]) {
	case "II\x2A\x00":
		order = binary.LittleEndian
	case "MM\x00\x2A":
		order = binary.BigEndian
	default:
		return nil, 0, false
	}
	ifd := int(order.Uint32(data[4:8]))
	if ifd+2 > len(data) {
		return nil, 0, false
	}
	return order, ifd, true
}

// setTIFFResolution は XResolution/YResolution タグの値をその場で書き換えます
func setTIFFResolution(data []byte, dpi float64) {
	order, ifd, ok := tiffIFD(data)
	if !ok {
		return
	}
	num := uint32(math.Round(dpi * 100))

	n := int(order.Uint16(data[ifd : ifd+2]))
	for i := 0; i < n; i++ {
		e := ifd + 2 + i*12
		if e+12 > len(data) {
			return
		}
		tag := order.Uint16(data[e : e+2])
		typ := order.Uint16(data[e+2 : e+4])
		switch {
		case (tag == tiffTagXResolution || tag == tiffTagYResolution) && typ == tiffTypeRational:
			off := int(order.Uint32(data[e+8 : e+12]))
			if off+8 > len(data) {
				return
			}
			order.PutUint32(data[off:off+4], num)
			order.PutUint32(data[off+4:off+8], 100)
		case tag == tiffTagResolutionUnit && typ == tiffTypeShort:
			order.PutUint16(data[e+8:e+10], tiffResolutionInch)
		}
	}
}

// ReadTIFFResolution はTIFFデータの XResolution をDPIとして返します（なければ0）
func ReadTIFFResolution(data []byte) float64 {
	order, ifd, ok := tiffIFD(data)
	if !ok {
		return 0
	}
	n := int(order.Uint16(data[ifd : ifd+2]))
	for i := 0; i < n; i++ {
		e := ifd + 2 + i*12
		if e+12 > len(data) {
			return 0
		}
		if order.Uint16(data[e:e+2]) != tiffTagXResolution || order.Uint16(data[e+2:e+4]) != tiffTypeRational {
			continue
		}
		off := int(order.Uint32(data[e+8 : e+12]))
		if off+8 > len(data) {
			return 0
		}
		num, den := order.Uint32(data[off:off+4]), order.Uint32(data[off+4:off+8])
		if den == 0 {
			return 0
		}
		return float64(num) / float64(den)
	}
	return 0
}
