package compactor

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"math/big"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TomasB/redblock/internal/atomicfile"
)

// Output file names written by WriteFiles.
const (
	HeaderFile = "header.txt"
	ListFile   = "list.txt"
	GzipFile   = "list.txt.gz"
)

const timestampLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

var preamble = []string{
	`A list of IP ranges (in CIDR format, newline-delimited) registered to U.S. states and countries that have enacted laws requiring age verification for online content deemed "harmful to minors."`,
	`These laws are often written in vague or overly broad terms, and in practice, they have been used or proposed to restrict access to LGBTQ+ content, sexual health information, and other constitutionally protected material.`,
}

var trailer = []string{
	`Learn more at https://dispherical.com/tools/redblock/`,
	`Includes transformed data from DB-IP (db-ip.com) licensed under CC BY 4.0`,
}

// Output is a rendered block list.
type Output struct {
	Header   string
	Body     string
	Entries  int
	Addrs    *big.Int
	BodySize int
}

// List returns the full block-list file contents.
func (o Output) List() []byte {
	var b bytes.Buffer
	b.WriteString(o.Header)
	b.WriteString("\n\n")
	b.WriteString(o.Body)
	return b.Bytes()
}

// Render formats regions as a block list: a metadata header and a body in
// which each label's CIDRs follow a "# <label>" line. Labels appear in
// first-seen order; labels without CIDRs are omitted.
func Render(regions *Regions, now time.Time) Output {
	var body strings.Builder
	total := new(big.Int)
	entries := 0

	for _, label := range regions.Labels() {
		cidrs := regions.CIDRs(label)
		if len(cidrs) == 0 {
			continue
		}
		fmt.Fprintf(&body, "# %s\n", label)
		for _, c := range cidrs {
			body.WriteString(c)
			body.WriteByte('\n')
			entries++
			total.Add(total, prefixSize(c))
		}
	}

	size := body.Len()
	var h strings.Builder
	for _, line := range preamble {
		fmt.Fprintf(&h, "# %s\n", line)
	}
	fmt.Fprintf(&h, "# Updated %s\n", now.Format(timestampLayout))
	fmt.Fprintf(&h, "# Total CIDR entries: %d\n", entries)
	fmt.Fprintf(&h, "# Total IPs blocked: %s\n", total)
	fmt.Fprintf(&h, "# File size: %.2f MB, %d bytes\n", float64(size)/1024/1024, size)
	for _, line := range trailer {
		fmt.Fprintf(&h, "# %s\n", line)
	}

	return Output{
		Header:   h.String(),
		Body:     body.String(),
		Entries:  entries,
		Addrs:    total,
		BodySize: size,
	}
}

func prefixSize(cidr string) *big.Int {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return new(big.Int)
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(p.Addr().BitLen()-p.Bits()))
}

// WriteFiles writes the header, the block list and its gzip copy into dir.
// Each file is written to a temporary name and renamed into place.
func WriteFiles(dir string, out Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	list := out.List()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Name = ListFile
	zw.ModTime = time.Now()
	if _, err := zw.Write(list); err != nil {
		return fmt.Errorf("compress list: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress list: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{HeaderFile, []byte(out.Header)},
		{ListFile, list},
		{GzipFile, gz.Bytes()},
	}
	for _, f := range files {
		if err := atomicfile.WriteFile(filepath.Join(dir, f.name), f.data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
