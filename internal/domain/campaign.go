package domain

// Campaign содержит UTM-метки и произвольный тег кампании.
// Встраивается в TrackingLink и ChannelSubscriber под одними и теми же колонками.
type Campaign struct {
	Source   *string `gorm:"column:utm_source;size:255;index" json:"utm_source,omitempty"`
	Medium   *string `gorm:"column:utm_medium;size:255" json:"utm_medium,omitempty"`
	Campaign *string `gorm:"column:utm_campaign;size:255" json:"utm_campaign,omitempty"`
	Term     *string `gorm:"column:utm_term;size:255" json:"utm_term,omitempty"`
	Content  *string `gorm:"column:utm_content;size:255" json:"utm_content,omitempty"`
	Tag      *string `gorm:"column:tag;size:100" json:"tag,omitempty"`
}

// Clone возвращает независимую копию, чтобы последующие правки ссылки
// не затрагивали уже сохраненную атрибуцию.
func (c Campaign) Clone() Campaign {
	return Campaign{
		Source:   cloneString(c.Source),
		Medium:   cloneString(c.Medium),
		Campaign: cloneString(c.Campaign),
		Term:     cloneString(c.Term),
		Content:  cloneString(c.Content),
		Tag:      cloneString(c.Tag),
	}
}

// SourceOrDefault возвращает utm_source или fallback, если источник не задан
func (c Campaign) SourceOrDefault(fallback string) string {
	if c.Source == nil || *c.Source == "" {
		return fallback
	}
	return *c.Source
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
