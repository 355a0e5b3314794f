package providers

import "guidedjournal/internal/storage"

type Providers struct {
	TemplateProvider *TemplateProvider
	JournalProvider  *JournalProvider
	UserProvider     *UserProvider
}

func New(db storage.DB) *Providers {
	return &Providers{
		TemplateProvider: NewTemplateProvider(db),
		JournalProvider:  NewJournalProvider(db),
		UserProvider:     NewUserProvider(db),
	}
}
