package codec

import (
	"errors"
	"hash/crc32"
)

func errorsIs(err, target error) bool { return errors.Is(err, target) }

func newTestCRC(data []byte) uint32 { return crc32.ChecksumIEEE(data) }
