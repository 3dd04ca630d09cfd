package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/shibukawa/ddlreflect"
)

// XML layout:
//
//	<ddlreflect generator="..." dialect="...">
//	  <table name="..." schema="..." fingerprint="...">
//	    <option name="ENGINE">InnoDB</option>
//	    <column name="id" datatype="INT" nullable="false" .../>
//	    <index name="PRIMARY" kind="PRIMARY"><key name="id" order="ASC"/></index>
//	    <skipped reason="...">fragment</skipped>
//	    <sql>CREATE TABLE ...</sql>
//	  </table>
//	</ddlreflect>
const xmlRoot = "ddlreflect"

func encodeXML(out io.Writer, metadata Metadata, tables []TableDocument, pretty bool) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(xmlRoot)
	setAttr(root, "generator", metadata.Generator)
	setAttr(root, "source", metadata.Source)
	setAttr(root, "dialect", metadata.Dialect)

	for _, table := range tables {
		appendTable(root, table)
	}

	if pretty {
		doc.Indent(2)
	}

	if _, err := doc.WriteTo(out); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}

	return nil
}

func appendTable(parent *etree.Element, table TableDocument) {
	elem := parent.CreateElement("table")
	elem.CreateAttr("name", table.Name)
	setAttr(elem, "schema", table.Schema)
	setAttr(elem, "fingerprint", table.Fingerprint)

	for _, key := range sortedKeys(table.Options) {
		option := elem.CreateElement("option")
		option.CreateAttr("name", key)
		option.SetText(table.Options[key])
	}

	for _, col := range table.Columns {
		appendColumn(elem, col)
	}

	for _, idx := range table.Indexes {
		index := elem.CreateElement("index")
		index.CreateAttr("name", idx.Name)
		index.CreateAttr("kind", string(idx.Kind))
		setAttr(index, "constraint", idx.Constraint)
		setAttr(index, "trailing", idx.Trailing)

		for _, key := range idx.Keys {
			k := index.CreateElement("key")
			k.CreateAttr("name", key.Name)
			setIntAttr(k, "length", key.Length)
			k.CreateAttr("order", string(key.Order))
		}
	}

	for _, field := range table.Fields {
		f := elem.CreateElement("field")
		f.CreateAttr("column", field.Column)
		f.CreateAttr("name", field.Name)
		f.CreateAttr("type", field.Type)
		f.CreateAttr("goType", field.GoType)
		setBoolAttr(f, "nullable", field.Nullable)
		setBoolAttr(f, "primaryKey", field.PrimaryKey)
	}

	for _, skipped := range table.Skipped {
		s := elem.CreateElement("skipped")
		s.CreateAttr("reason", skipped.Reason)
		s.SetText(skipped.Fragment)
	}

	if table.SQL != "" {
		elem.CreateElement("sql").SetText(table.SQL)
	}
}

func appendColumn(parent *etree.Element, col *ddlreflect.Column) {
	elem := parent.CreateElement("column")
	elem.CreateAttr("name", col.Name)
	elem.CreateAttr("datatype", col.Datatype)
	setIntAttr(elem, "length", col.Length)
	setIntAttr(elem, "scale", col.Scale)
	elem.CreateAttr("nullable", strconv.FormatBool(col.Nullable))

	if col.Default != nil {
		elem.CreateAttr("default", *col.Default)
	}

	setBoolAttr(elem, "autoIncrement", col.AutoIncrement)
	setBoolAttr(elem, "unsigned", col.Unsigned)
	setBoolAttr(elem, "zerofill", col.Zerofill)
	setBoolAttr(elem, "binary", col.Binary)
	setAttr(elem, "constraint", col.Constraint)
	setAttr(elem, "foreignKey", col.ForeignKey)
	setAttr(elem, "tableReference", col.TableReference)
	setAttr(elem, "onDelete", col.OnDelete)
	setAttr(elem, "onUpdate", col.OnUpdate)

	for _, name := range col.ColumnReferences {
		elem.CreateElement("reference").SetText(name)
	}

	for _, value := range col.EnumValues {
		elem.CreateElement("value").SetText(value)
	}

	for _, attribute := range col.Attributes {
		elem.CreateElement("attribute").SetText(attribute)
	}

	if col.Comment != "" {
		elem.CreateElement("comment").SetText(col.Comment)
	}
}

// decodeXML reads the layout written by encodeXML.
func decodeXML(in io.Reader) (Metadata, []TableDocument, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(in); err != nil {
		return Metadata{}, nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.SelectElement(xmlRoot)
	if root == nil {
		return Metadata{}, nil, fmt.Errorf("failed to parse XML: missing <%s> element", xmlRoot)
	}

	metadata := Metadata{
		Generator: root.SelectAttrValue("generator", ""),
		Source:    root.SelectAttrValue("source", ""),
		Dialect:   root.SelectAttrValue("dialect", ""),
	}

	var tables []TableDocument

	for _, elem := range root.SelectElements("table") {
		table, err := readTable(elem)
		if err != nil {
			return metadata, nil, err
		}

		tables = append(tables, table)
	}

	return metadata, tables, nil
}

func readTable(elem *etree.Element) (TableDocument, error) {
	table := TableDocument{
		Name:        elem.SelectAttrValue("name", ""),
		Schema:      elem.SelectAttrValue("schema", ""),
		Fingerprint: elem.SelectAttrValue("fingerprint", ""),
	}

	for _, child := range elem.ChildElements() {
		switch child.Tag {
		case "option":
			if table.Options == nil {
				table.Options = make(map[string]string)
			}

			table.Options[child.SelectAttrValue("name", "")] = child.Text()
		case "column":
			col, err := readColumn(child)
			if err != nil {
				return table, err
			}

			table.Columns = append(table.Columns, col)
		case "index":
			idx, err := readIndex(child)
			if err != nil {
				return table, err
			}

			table.Indexes = append(table.Indexes, idx)
		case "skipped":
			table.Skipped = append(table.Skipped, ddlreflect.SkippedFragment{
				Fragment: child.Text(),
				Reason:   child.SelectAttrValue("reason", ""),
			})
		case "sql":
			table.SQL = child.Text()
		}
	}

	return table, nil
}

func readColumn(elem *etree.Element) (*ddlreflect.Column, error) {
	col := &ddlreflect.Column{
		Name:           elem.SelectAttrValue("name", ""),
		Datatype:       elem.SelectAttrValue("datatype", ""),
		Nullable:       elem.SelectAttrValue("nullable", "true") == "true",
		AutoIncrement:  elem.SelectAttrValue("autoIncrement", "") == "true",
		Unsigned:       elem.SelectAttrValue("unsigned", "") == "true",
		Zerofill:       elem.SelectAttrValue("zerofill", "") == "true",
		Binary:         elem.SelectAttrValue("binary", "") == "true",
		Constraint:     elem.SelectAttrValue("constraint", ""),
		ForeignKey:     elem.SelectAttrValue("foreignKey", ""),
		TableReference: elem.SelectAttrValue("tableReference", ""),
		OnDelete:       elem.SelectAttrValue("onDelete", ""),
		OnUpdate:       elem.SelectAttrValue("onUpdate", ""),
	}

	var err error

	if col.Length, err = intAttr(elem, "length"); err != nil {
		return nil, err
	}

	if col.Scale, err = intAttr(elem, "scale"); err != nil {
		return nil, err
	}

	if attr := elem.SelectAttr("default"); attr != nil {
		value := attr.Value
		col.Default = &value
	}

	for _, child := range elem.ChildElements() {
		switch child.Tag {
		case "reference":
			col.ColumnReferences = append(col.ColumnReferences, child.Text())
		case "value":
			col.EnumValues = append(col.EnumValues, child.Text())
		case "attribute":
			col.Attributes = append(col.Attributes, child.Text())
		case "comment":
			col.Comment = child.Text()
		}
	}

	return col, nil
}

func readIndex(elem *etree.Element) (*ddlreflect.Index, error) {
	idx := &ddlreflect.Index{
		Name:       elem.SelectAttrValue("name", ""),
		Kind:       ddlreflect.IndexKind(elem.SelectAttrValue("kind", string(ddlreflect.IndexPlain))),
		Constraint: elem.SelectAttrValue("constraint", ""),
		Trailing:   elem.SelectAttrValue("trailing", ""),
	}

	for _, child := range elem.SelectElements("key") {
		length, err := intAttr(child, "length")
		if err != nil {
			return nil, err
		}

		idx.Keys = append(idx.Keys, ddlreflect.IndexKey{
			Name:   child.SelectAttrValue("name", ""),
			Length: length,
			Order:  ddlreflect.SortOrder(child.SelectAttrValue("order", string(ddlreflect.Asc))),
		})
	}

	return idx, nil
}

func setAttr(elem *etree.Element, key, value string) {
	if value != "" {
		elem.CreateAttr(key, value)
	}
}

func setBoolAttr(elem *etree.Element, key string, value bool) {
	if value {
		elem.CreateAttr(key, "true")
	}
}

func setIntAttr(elem *etree.Element, key string, value *int) {
	if value != nil {
		elem.CreateAttr(key, strconv.Itoa(*value))
	}
}

func intAttr(elem *etree.Element, key string) (*int, error) {
	attr := elem.SelectAttr(key)
	if attr == nil {
		return nil, nil
	}

	value, err := strconv.Atoi(attr.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s attribute %q on <%s>: %w", key, attr.Value, elem.Tag, err)
	}

	return &value, nil
}
