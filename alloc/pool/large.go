package pool

import "github.com/joshuapare/allockit/internal/format"

// largeArena serves requests above MaxClassSize, and class requests whose
// class is exhausted. Free blocks sit on a singly linked scan list searched
// first-fit. Blocks are split on allocation but never merged.
//
// Block layout (header addresses are arena addresses):
//
//	0x00  next    uint64  next header on the scan list, 0 at the end
//	0x08  size    uint64  payload bytes
//	0x10  isFree  uint8
type largeArena struct {
	arena
	head uint64 // first header on the scan list, 0 when empty
}

// reset lays the whole arena out as one free block.
func (l *largeArena) reset() {
	h := l.base
	l.setNext(h, 0)
	l.setSize(h, uint64(len(l.data))-format.LargeHeaderSize)
	l.setFree(h, true)
	l.head = h
}

// alloc takes the first free block of at least need bytes off the scan list.
// A block with at least LargeHeaderSize+splitMin bytes to spare is cut to
// need bytes and the tail becomes a new free block at the head of the list.
func (l *largeArena) alloc(need, splitMin uint64) (hdr uint64, split bool) {
	var prev uint64
	for cur := l.head; cur != 0; prev, cur = cur, l.next(cur) {
		size := l.size(cur)
		if size < need {
			continue
		}

		if prev == 0 {
			l.head = l.next(cur)
		} else {
			l.setNext(prev, l.next(cur))
		}
		l.setNext(cur, 0)
		l.setFree(cur, false)

		if rest := size - need; rest >= format.LargeHeaderSize+splitMin {
			tail := cur + format.LargeHeaderSize + need
			l.setSize(tail, rest-format.LargeHeaderSize)
			l.setFree(tail, true)
			l.push(tail)
			l.setSize(cur, need)
			split = true
		}
		return cur, split
	}
	return 0, false
}

// release marks the block free and puts it at the head of the scan list.
// It reports false when the block is already free.
func (l *largeArena) release(hdr uint64) bool {
	if l.isFree(hdr) {
		return false
	}
	l.setFree(hdr, true)
	l.push(hdr)
	return true
}

// header returns the header address for payload address p, if p can be a
// large payload.
func (l *largeArena) header(p uint64) (uint64, bool) {
	if !l.contains(p) || p-l.base < format.LargeHeaderSize {
		return 0, false
	}
	return p - format.LargeHeaderSize, true
}

func (l *largeArena) push(hdr uint64) {
	l.setNext(hdr, l.head)
	l.head = hdr
}

func (l *largeArena) next(hdr uint64) uint64 {
	return l.readU64(hdr + format.LargeNextOffset)
}

func (l *largeArena) setNext(hdr, next uint64) {
	l.putU64(hdr+format.LargeNextOffset, next)
}

func (l *largeArena) size(hdr uint64) uint64 {
	return l.readU64(hdr + format.LargeSizeOffset)
}

func (l *largeArena) setSize(hdr, size uint64) {
	l.putU64(hdr+format.LargeSizeOffset, size)
}

func (l *largeArena) isFree(hdr uint64) bool {
	return format.ReadU8(l.data, l.off(hdr)+format.LargeIsFreeOffset) != 0
}

func (l *largeArena) setFree(hdr uint64, free bool) {
	var v uint8
	if free {
		v = 1
	}
	format.PutU8(l.data, l.off(hdr)+format.LargeIsFreeOffset, v)
}
