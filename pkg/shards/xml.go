package shards

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/types"
	"github.com/beevik/etree"
)

// decodeXML decodes
//
//	<shard trait="...">
//	  <crate name="...">
//	    <impl synthetic="true"><text>...</text><generic>T</generic><where>T: Send</where></impl>
//	  </crate>
//	</shard>
func decodeXML(p string, data []byte) ([]types.Shard, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrShardParse, "failed to decode xml shard").
			WithDetail("path", p)
	}

	root := doc.SelectElement("shard")
	if root == nil {
		return nil, errors.New(errors.ErrShardParse, "xml shard has no <shard> root").
			WithDetail("path", p)
	}

	d := document{Trait: strings.TrimSpace(root.SelectAttrValue("trait", ""))}
	for _, crate := range root.SelectElements("crate") {
		c := crateDocument{
			Name:         strings.TrimSpace(crate.SelectAttrValue("name", "")),
			Implementors: types.Payload{},
		}
		for _, el := range crate.SelectElements("impl") {
			impl, err := xmlImplementor(el)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrShardParse, "bad <impl> in crate %q", c.Name).
					WithDetail("path", p)
			}
			c.Implementors = append(c.Implementors, impl)
		}
		d.Crates = append(d.Crates, c)
	}

	return d.shards(p)
}

func xmlImplementor(el *etree.Element) (types.Implementor, error) {
	var impl types.Implementor

	if attr := el.SelectAttr("synthetic"); attr != nil {
		synthetic, err := strconv.ParseBool(attr.Value)
		if err != nil {
			return impl, err
		}
		impl.Synthetic = synthetic
	}
	if text := el.SelectElement("text"); text != nil {
		impl.Text = text.Text()
	}
	for _, g := range el.SelectElements("generic") {
		impl.Generics = append(impl.Generics, strings.TrimSpace(g.Text()))
	}
	for _, w := range el.SelectElements("where") {
		impl.Where = append(impl.Where, strings.TrimSpace(w.Text()))
	}
	return impl, nil
}
