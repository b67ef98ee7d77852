package sitemap

import "encoding/xml"

const (
	sitemapXMLNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	imageXMLNS   = "http://www.google.com/schemas/sitemap-image/1.1"
)

type urlSet struct {
	XMLName    xml.Name `xml:"urlset"`
	XMLNS      string   `xml:"xmlns,attr"`
	XMLNSImage string   `xml:"xmlns:image,attr,omitempty"`
	URLs       []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq string     `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
	Images     []xmlImage `xml:"image:image,omitempty"`
}

type xmlImage struct {
	Loc string `xml:"image:loc"`
}

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	XMLNS    string         `xml:"xmlns,attr"`
	Sitemaps []xmlIndexItem `xml:"sitemap"`
}

type xmlIndexItem struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// marshalXML renders a document with the standard XML header.
func marshalXML(doc any) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, []byte(xml.Header)...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}
