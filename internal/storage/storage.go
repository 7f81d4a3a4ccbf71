// Package storage implements the WIRES-X news board: indexed text messages
// and pictures kept as flat files under a per-destination directory, mirroring
// the on-disk layout WIRES-X-compatible hotspots read and write.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	recordSize  = 83
	messageSize = 121
)

// Record is a single news-board entry: a text message, a picture, or a
// voice memo. Field sizes match the on-disk 83-byte index record and the
// 121-byte message-file layout.
type Record struct {
	GPSPos   [18]byte
	Token    [6]byte
	TimeRecv [12]byte
	Number   uint32
	Type     [3]byte // "T01" message, "P01".."P99" picture, "V01" voice, "E01" emergency
	TimeSend [12]byte
	Callsign [10]byte
	Subject  [16]byte
	To       [5]byte
	Text     [80]byte
}

// Storage reads and writes the flat-file news board rooted at basePath.
// Picture uploads are staged across many AddPictureData calls, so Storage
// keeps the in-flight record and open file as state between them.
type Storage struct {
	basePath string
	talkyKey string

	pictureFile    *os.File
	pictureReg     *Record
	pictureWritten int64

	source   string
	seq      byte
	size     uint32
	sumCheck uint32
}

// New returns a Storage rooted at basePath, stamping downloaded picture
// headers with talkyKey.
func New(basePath, talkyKey string) *Storage {
	return &Storage{basePath: basePath, talkyKey: talkyKey}
}

// TalkyKey returns the configured talky key, used by callers that stamp it
// into reply frames outside of GetPictureHeader.
func (s *Storage) TalkyKey() string {
	return s.talkyKey
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func trimField(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

func (s *Storage) destDir(to [5]byte) (dir, destino string) {
	destino = trimField(to[:])
	return filepath.Join(s.basePath, destino), destino
}

// reserveNumber returns the index entry number a new record would receive,
// without writing anything — the count of existing 83-byte records, plus one.
func reserveNumber(dir string) (uint32, error) {
	info, err := os.Stat(filepath.Join(dir, "INDEX.DAT"))
	if err != nil {
		return 1, nil
	}
	return uint32(info.Size()/recordSize) + 1, nil
}

// UpdateIndex appends reg to its destination's INDEX.DAT, assigning the next
// record number unless reg.Number is already set (the picture-upload path
// reserves its number up front, before the index record is known, so the
// file name it opens and the index record it finally writes agree).
func (s *Storage) UpdateIndex(reg *Record) error {
	dir, destino := s.destDir(reg.To)
	s.source = destino

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create news directory for %s: %w", destino, err)
	}

	number := reg.Number
	if number == 0 {
		n, err := reserveNumber(dir)
		if err != nil {
			return err
		}
		number = n
	}

	file, err := os.OpenFile(filepath.Join(dir, "INDEX.DAT"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	record := make([]byte, recordSize)
	copy(record[0:18], reg.GPSPos[:])
	copy(record[18:24], reg.Token[:])
	copy(record[24:36], reg.TimeRecv[:])
	copy(record[36:41], []byte(fmt.Sprintf("%05d", number)))
	copy(record[41:44], reg.Type[:])
	copy(record[44:56], reg.TimeSend[:])
	copy(record[56:66], reg.Callsign[:])
	copy(record[66:82], reg.Subject[:])
	record[82] = 0x0D

	if _, err := file.Write(record); err != nil {
		return fmt.Errorf("write index record: %w", err)
	}

	reg.Number = number

	switch reg.Type[0] {
	case 'T':
		return s.writeMessageFile(dir, number, reg)
	}

	return nil
}

func (s *Storage) writeMessageFile(dir string, number uint32, reg *Record) error {
	file, err := os.OpenFile(filepath.Join(dir, fmt.Sprintf("%05d.DAT", number)), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open message file: %w", err)
	}
	defer file.Close()

	record := make([]byte, messageSize)
	copy(record[0:10], reg.Callsign[:])
	copy(record[10:22], reg.TimeSend[:])
	copy(record[22:40], reg.GPSPos[:])
	copy(record[40:120], reg.Text[:])
	record[120] = 0x0D

	_, err = file.Write(record)
	return err
}

// StoreTextMessage builds and indexes a text-message record from a WIRES-X
// UPLOAD MESSAGE payload. hasGPS reports whether the payload is prefixed
// with an 18-byte GPS position.
func (s *Storage) StoreTextMessage(data []byte, source string, hasGPS bool) error {
	reg := &Record{}
	off := 0
	if hasGPS {
		copy(reg.GPSPos[:], data[0:18])
		off = 18
	}
	copy(reg.Callsign[:], []byte(padRight(source, 10)))
	copy(reg.TimeRecv[:], data[off+6:off+18])
	copy(reg.TimeSend[:], data[off+18:off+30])
	copy(reg.To[:], data[off+30:off+35])
	reg.Type = [3]byte{'T', '0', '1'}
	copy(reg.Text[:], data[off+45:off+125])
	for i := range reg.Subject {
		reg.Subject[i] = ' '
	}

	return s.UpdateIndex(reg)
}

// StoreVoice indexes a voice-memo record and returns the path callers
// should stream the recorded audio into.
func (s *Storage) StoreVoice(data []byte, source string, hasGPS bool) (string, error) {
	reg := &Record{}
	off := 0
	if hasGPS {
		copy(reg.GPSPos[:], data[0:18])
		off = 18
	}
	copy(reg.Callsign[:], []byte(padRight(source, 10)))
	copy(reg.TimeRecv[:], data[off+6:off+18])
	copy(reg.TimeSend[:], data[off+18:off+30])
	copy(reg.To[:], data[off+30:off+35])
	reg.Type = [3]byte{'V', '0', '1'}
	for i := range reg.Subject {
		reg.Subject[i] = ' '
	}

	dir, _ := s.destDir(reg.To)
	if err := s.UpdateIndex(reg); err != nil {
		return "", err
	}

	return filepath.Join(dir, fmt.Sprintf("%05d.DAT", reg.Number)), nil
}

// StorePicture stages a picture-upload record from a WIRES-X UPLOAD PICTURE
// header frame. The record is held in memory until AddPictureData completes
// the transfer and the real index entry (with its final "P%02d" size class)
// is written.
func (s *Storage) StorePicture(data []byte, source string, hasGPS bool) {
	reg := &Record{}
	off := 0
	if hasGPS {
		copy(reg.GPSPos[:], data[0:18])
		off = 18
	} else {
		for i := range reg.GPSPos {
			reg.GPSPos[i] = 0
		}
	}
	copy(reg.Callsign[:], []byte(padRight(source, 10)))
	copy(reg.TimeRecv[:], data[off+6:off+18])
	copy(reg.TimeSend[:], data[off+18:off+30])
	copy(reg.To[:], data[off+30:off+35])
	copy(reg.Subject[:], data[off+45:off+61])

	if hasGPS {
		copy(reg.Token[:], data[18:24])
	} else {
		copy(reg.Token[:], data[0:6])
	}

	s.pictureReg = reg
	s.pictureFile = nil
	s.pictureWritten = 0
}

// AddPictureData appends one WIRES-X picture-data frame to the in-flight
// upload staged by StorePicture, opening the destination file on the first
// call. A frame shorter than 1027 bytes ends the transfer: the file is
// closed and the staged record is finally indexed.
//
// The payload carries three one-byte frame markers at offsets 250, 510 and
// 770 that are not part of the picture and are elided on write.
func (s *Storage) AddPictureData(data []byte) error {
	if s.pictureFile == nil {
		if s.pictureReg == nil {
			return fmt.Errorf("no picture upload in progress")
		}

		dir, destino := s.destDir(s.pictureReg.To)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create news directory for %s: %w", destino, err)
		}

		number, err := reserveNumber(dir)
		if err != nil {
			return err
		}

		file, err := os.OpenFile(filepath.Join(dir, fmt.Sprintf("%05d.JPG", number)), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open picture file: %w", err)
		}

		s.pictureFile = file
		s.pictureReg.Number = number
		s.source = destino
	}

	n, err := writePictureChunk(s.pictureFile, data)
	if err != nil {
		return err
	}
	s.pictureWritten += int64(n)

	if len(data) < 1027 {
		finalSize := s.pictureWritten
		if err := s.pictureFile.Close(); err != nil {
			return fmt.Errorf("close picture file: %w", err)
		}

		reg := s.pictureReg
		s.pictureFile = nil
		s.pictureReg = nil
		s.pictureWritten = 0

		reg.Type = [3]byte{}
		copy(reg.Type[:], []byte(fmt.Sprintf("P%02d", finalSize/1000+1)))

		return s.UpdateIndex(reg)
	}

	return nil
}

// writePictureChunk writes one AddPictureData frame, skipping the marker
// bytes at offsets 250, 510 and 770, and returns the number of picture
// bytes written.
func writePictureChunk(file *os.File, data []byte) (int, error) {
	size := len(data)

	write := func(b []byte) error {
		_, err := file.Write(b)
		return err
	}

	switch {
	case size > 771:
		if err := write(data[:250]); err != nil {
			return 0, err
		}
		if err := write(data[251:510]); err != nil {
			return 0, err
		}
		if err := write(data[511:770]); err != nil {
			return 0, err
		}
		if err := write(data[771:size]); err != nil {
			return 0, err
		}
		return 250 + 259 + 259 + (size - 771), nil
	case size > 511:
		if err := write(data[:250]); err != nil {
			return 0, err
		}
		if err := write(data[251:510]); err != nil {
			return 0, err
		}
		if err := write(data[511:size]); err != nil {
			return 0, err
		}
		return 250 + 259 + (size - 511), nil
	case size > 251:
		if err := write(data[:250]); err != nil {
			return 0, err
		}
		if err := write(data[251:size]); err != nil {
			return 0, err
		}
		return 250 + (size - 251), nil
	default:
		if err := write(data[:size]); err != nil {
			return 0, err
		}
		return size, nil
	}
}

// GetList returns a LIST/DOWNLOAD reply body: a count header followed by up
// to 20 47-byte summaries of records matching typeChar ('1' message, '2'
// picture, '3' voice, '4' emergency) starting at the start'th matching entry.
func (s *Storage) GetList(typeChar byte, source string, start uint32) ([]byte, error) {
	tmp := padRight(source, 5)
	file, err := os.Open(filepath.Join(s.basePath, trimField([]byte(tmp)), "INDEX.DAT"))
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	var items, count uint32
	entries := make([]byte, 0, 20*47)
	record := make([]byte, recordSize)

	for {
		n, err := io.ReadFull(file, record)
		if n < recordSize {
			if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("read index file: %w", err)
			}
			break
		}

		fType := record[41]
		matches := (fType == 'T' && typeChar == '1') ||
			(fType == 'P' && typeChar == '2') ||
			(fType == 'V' && typeChar == '3') ||
			(fType == 'E' && typeChar == '4')

		if matches {
			if items >= start && count < 20 {
				entries = append(entries, record[36:83]...)
				count++
			}
			items++
		}
	}

	data := make([]byte, 15+len(entries))
	copy(data[0:2], []byte(fmt.Sprintf("%02d", count+1)))
	copy(data[2:7], []byte(tmp))
	copy(data[7:14], []byte(fmt.Sprintf("     %02d", count)))
	data[14] = 0x0D
	copy(data[15:], entries)

	return data, nil
}

// GetMessage returns a GET MESSAGE reply body for the given record number:
// a text-message reply (138 bytes) or a picture-message reply (74 bytes,
// and opens the picture file for subsequent GetPictureData/GetPictureHeader
// calls).
func (s *Storage) GetMessage(number uint32, source string) ([]byte, error) {
	tmp := padRight(source, 5)
	dir := filepath.Join(s.basePath, trimField([]byte(tmp)))
	jpgPath := filepath.Join(dir, fmt.Sprintf("%05d.JPG", number))

	if _, err := os.Stat(jpgPath); err != nil {
		return s.getTextMessage(dir, tmp, number)
	}

	return s.getPictureMessage(dir, jpgPath, tmp, number)
}

func (s *Storage) getTextMessage(dir, source string, number uint32) ([]byte, error) {
	file, err := os.Open(filepath.Join(dir, fmt.Sprintf("%05d.DAT", number)))
	if err != nil {
		return nil, fmt.Errorf("open message file: %w", err)
	}
	defer file.Close()

	data := make([]byte, 143)
	data[0] = 'T'
	copy(data[5:7], []byte("01"))
	copy(data[7:12], []byte(source))
	copy(data[12:22], []byte(fmt.Sprintf("     %05d", number)))

	n, err := io.ReadFull(file, data[22:143])
	if n != messageSize {
		return nil, fmt.Errorf("short read on message file: %w", err)
	}

	return data[:138], nil
}

func (s *Storage) getPictureMessage(dir, jpgPath, source string, number uint32) ([]byte, error) {
	info, err := os.Stat(jpgPath)
	if err != nil {
		return nil, err
	}
	s.size = uint32(info.Size())

	record, err := readIndexRecord(dir, number)
	if err != nil {
		return nil, err
	}
	s.seq = 0

	data := make([]byte, 79)
	data[0] = 'P'
	copy(data[5:7], []byte("01"))
	copy(data[7:12], []byte(source))
	for i := 12; i < 17; i++ {
		data[i] = 0x20
	}
	copy(data[17:22], []byte(fmt.Sprintf("%05d", number)))
	copy(data[22:32], record[56:66]) // callsign
	copy(data[32:44], record[44:56]) // time_send
	copy(data[44:62], record[0:18])  // gps
	copy(data[62:78], record[66:82]) // subject
	data[78] = 0x0D

	file, err := os.Open(jpgPath)
	if err != nil {
		return nil, fmt.Errorf("open picture file: %w", err)
	}
	s.pictureFile = file

	return data[:74], nil
}

func readIndexRecord(dir string, number uint32) ([]byte, error) {
	file, err := os.Open(filepath.Join(dir, "INDEX.DAT"))
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(int64(recordSize)*int64(number-1), io.SeekStart); err != nil {
		return nil, err
	}

	record := make([]byte, recordSize)
	n, err := io.ReadFull(file, record)
	if n < recordSize {
		return nil, fmt.Errorf("short read on index file: %w", err)
	}

	return record, nil
}

// GetPictureHeader returns a GET PICTURE reply header for record number: the
// GPS position, size, talky key and file name WIRES-X expects before the
// picture-data frames begin streaming. Only the first 91 bytes of the frame
// carry protocol content; the trailing five bytes of the 16-byte subject
// copy are dropped by the sender the same way the original firmware drops
// them, and are left unused here rather than reproduced as a buffer
// overrun.
func (s *Storage) GetPictureHeader(number uint32, source string) ([]byte, error) {
	tmp := padRight(source, 5)
	record, err := readIndexRecord(filepath.Join(s.basePath, trimField([]byte(tmp))), number)
	if err != nil {
		return nil, err
	}

	s.sumCheck = 0

	data := make([]byte, 96)
	copy(data[5:23], record[0:18])

	cab := []byte{0x50, 0x00, 0x00, 0x30, 0x00, 0x00, 0x00}
	cab[2] = s.seq
	s.seq++
	copy(data[23:30], cab)

	data[30] = byte((s.size >> 8) & 0xFF)
	data[31] = byte(s.size & 0xFF)
	copy(data[32:34], []byte("20"))
	copy(data[34:46], record[24:36]) // time_recv
	copy(data[46:52], []byte(padRight(s.talkyKey, 6)))
	copy(data[52:62], []byte(fmt.Sprintf("%06d.jpg", number)))
	copy(data[62:80], record[0:18])  // gps
	copy(data[80:96], record[66:82]) // subject

	return data[:91], nil
}

// GetPictureData returns the next picture-data frame starting at offset
// bytes into the picture opened by GetMessage/getPictureMessage, up to 1024
// bytes of payload, tagged with a sequence byte and (on the final frame) a
// remaining-size field.
func (s *Storage) GetPictureData(offset uint32) ([]byte, error) {
	if s.pictureFile == nil {
		return nil, fmt.Errorf("no picture download in progress")
	}

	tag := []byte{0x50, 0x00, 0x00, 0x00, 0x00}
	tag[2] = s.seq
	s.seq++

	tam := uint32(1024)
	if s.size < offset {
		return nil, fmt.Errorf("picture offset %d beyond size %d", offset, s.size)
	}
	if remaining := s.size - offset; remaining < 1024 {
		tam = remaining
		tag[3] = byte((tam >> 8) & 0xFF)
		tag[4] = byte(tam & 0xFF)
	}

	data := make([]byte, 5+tam)
	copy(data[:5], tag)

	n, err := s.pictureFile.Read(data[5 : 5+tam])
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read picture data: %w", err)
	}

	for i := 0; i < n; i++ {
		s.sumCheck += uint32(data[5+i])
	}

	return data[:5+n], nil
}

// GetPictureSeq returns the frame sequence number that the next
// GetPictureHeader/GetPictureData call will stamp, one past the most recent.
func (s *Storage) GetPictureSeq() byte {
	return s.seq
}

// GetSumCheck returns the running additive checksum of picture bytes sent
// since the download began.
func (s *Storage) GetSumCheck() uint32 {
	return s.sumCheck
}

// PictureEnd closes out a picture download or upload in progress. When
// failed is true the partially-written upload file is removed instead of
// kept.
func (s *Storage) PictureEnd(failed bool) {
	if s.pictureFile != nil {
		name := s.pictureFile.Name()
		s.pictureFile.Close()
		if failed && s.pictureReg != nil {
			os.Remove(name)
		}
		s.pictureFile = nil
	}
	s.pictureReg = nil
	s.pictureWritten = 0
}
