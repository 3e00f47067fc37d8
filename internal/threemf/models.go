package threemf

import "encoding/xml"

// Model represents a 3MF model document
type Model struct {
	XMLName   xml.Name   `xml:"model"`
	Xmlns     string     `xml:"xmlns,attr"`
	Unit      string     `xml:"unit,attr"`
	Lang      string     `xml:"xml:lang,attr"`
	Metadata  []Metadata `xml:"metadata"`
	Resources Resources  `xml:"resources"`
	Build     *Build     `xml:"build"`
}

type Metadata struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type Resources struct {
	Objects []Object `xml:"object"`
}

type Object struct {
	ID         string      `xml:"id,attr"`
	Name       string      `xml:"name,attr"`
	Type       string      `xml:"type,attr"`
	Mesh       *MeshData   `xml:"mesh"`
	Components *Components `xml:"components"`
}

// MeshData captures the raw vertex and triangle XML. The inner content is
// parsed lazily with Sscanf; unmarshalling every vertex element through
// reflection is too slow for large models.
type MeshData struct {
	Vertices  *RawContent `xml:"vertices"`
	Triangles *RawContent `xml:"triangles"`
}

type RawContent struct {
	Content string `xml:",innerxml"`
}

type Components struct {
	Component []Component `xml:"component"`
}

type Component struct {
	ObjectID  string `xml:"objectid,attr"`
	Transform string `xml:"transform,attr"`
}

type Build struct {
	Items []Item `xml:"item"`
}

type Item struct {
	ObjectID  string `xml:"objectid,attr"`
	Transform string `xml:"transform,attr"`
}
