package i18n

// Translation keys used by the web views, the CLI and the terminal browser.
const (
	KeyDeleteRow              = "DELETE_ROW"
	KeyMore                   = "MORE"
	KeyCopyToClipboard        = "COPY_TO_CLIPBOARD"
	KeyCancel                 = "CANCEL"
	KeyDelete                 = "DELETE"
	KeyConfirmDeleteTitle     = "CONFIRM_DELETE_TITLE"
	KeyConfirmDeleteDesc      = "CONFIRM_DELETE_DESC"
	KeyAllSelectedRows        = "ALL_SELECTED_ROWS"
	KeySelectedRow            = "SELECTED_ROW"
	KeyAddRow                 = "ADD_ROW"
	KeyEditRow                = "EDIT_ROW"
	KeyExport                 = "EXPORT"
	KeyClearFilters           = "CLEAR_FILTERS"
	KeyClearSelection         = "CLEAR_SELECTION"
	KeyDeleteCurrentRows      = "DELETE_CURRENT_ROWS"
	KeyExportCurrentRows      = "EXPORT_CURRENT_ROWS"
	KeyCreateNew              = "CREATE_NEW"
	KeyView                   = "VIEW"
	KeyFilterAnything         = "FILTER_ANYTHING"
	KeyAll                    = "ALL"
	KeySearch                 = "SEARCH"
	KeyRearrangeThisColumn    = "REARRANGE_THIS_COLUMN"
	KeySortRowsByThisColumn   = "SORT_ROWS_BY_THIS_COLUMN"
	KeyFilterRowsByThisColumn = "FILTER_ROWS_BY_THIS_COLUMN"
	KeyUnpin                  = "UNPIN"
	KeyPinLeft                = "PINLEFT"
	KeyPinRight               = "PINRIGHT"
	KeyUnpinThisColumn        = "UNPIN_THIS_COLUMN"
	KeyPinThisColumn          = "PIN_THIS_COLUMN"
	KeySortDescending         = "SORTDESCENDING"
	KeySortAscending          = "SORTASCENDING"
	KeyClearSort              = "CLEAR_SORT"
	KeyHide                   = "HIDE"
	KeyShow                   = "SHOW"
	KeyColumnFilter           = "COLUMN_FILTER"
	KeyColumnFilterDesc       = "COLUMN_FILTER_DESC"
	KeySelectedRowsCount      = "SELECTED_ROWS_COUNT"
	KeyRowsPerPage            = "ROWS_PER_PAGE"
	KeyPageOf                 = "PAGE_OF"
	KeyResetRows              = "RESET_ROWS"
	KeySelectRows             = "SELECT_ROWS"
	KeyInRangeOf              = "IN_RANGE_OF"
	KeyEqualsOrContains       = "EQUALS_OR_CONTAINS"
	KeyIsBetween              = "IS_BETWEEN"
	KeyNow                    = "NOW"
)

// entry holds one key's translations, indexed by Language.
type entry map[Language]string

var catalog = map[string]entry{
	KeyDeleteRow:       {TR: "Satırı Sil", EN: "Delete Row", DE: "Zeile löschen", FR: "Supprimer la ligne", ES: "Eliminar fila"},
	KeyMore:            {TR: "Daha Fazla", EN: "More", DE: "Mehr", FR: "Plus", ES: "Más"},
	KeyCopyToClipboard: {TR: "Panoya Kopyala", EN: "Copy to Clipboard", DE: "In die Zwischenablage kopieren", FR: "Copier dans le presse-papiers", ES: "Copiar al portapapeles"},
	KeyCancel:          {TR: "İptal", EN: "Cancel", DE: "Abbrechen", FR: "Annuler", ES: "Cancelar"},
	KeyDelete:          {TR: "Sil", EN: "Delete", DE: "Löschen", FR: "Supprimer", ES: "Eliminar"},
	KeyConfirmDeleteTitle: {
		TR: "Bu {target} kalıcı olarak silecektir. Devam etmek istediğinize emin misiniz?",
		EN: "This will permanently delete {target}. Are you sure you want to proceed?",
		DE: "Dies wird {target} dauerhaft löschen. Sind Sie sicher, dass Sie fortfahren möchten?",
		FR: "Cela supprimera définitivement {target}. Êtes-vous sûr de vouloir continuer ?",
		ES: "Esto eliminará permanentemente {target}. ¿Estás seguro de que quieres continuar?",
	},
	KeyConfirmDeleteDesc: {
		TR: "Bu {target} kalıcı olarak silecektir. Bu işlemi geri alamayacaksınız.",
		EN: "Are you sure you want to delete {target}? You won't be able to undo this action.",
		DE: "Sind Sie sicher, dass Sie {target} löschen möchten? Diese Aktion kann nicht rückgängig gemacht werden.",
		FR: "Êtes-vous sûr de vouloir supprimer {target} ? Vous ne pourrez pas annuler cette action.",
		ES: "¿Estás seguro de que quieres eliminar {target}? No podrás deshacer esta acción.",
	},
	KeyAllSelectedRows:     {TR: "tüm seçili satırlar", EN: "all selected rows", DE: "alle ausgewählten Zeilen", FR: "toutes les lignes sélectionnées", ES: "todas las filas seleccionadas"},
	KeySelectedRow:         {TR: "seçili satır", EN: "the selected row", DE: "die ausgewählte Zeile", FR: "la ligne sélectionnée", ES: "la fila seleccionada"},
	KeyAddRow:              {TR: "Satır Ekle", EN: "Add Row", DE: "Zeile hinzufügen", FR: "Ajouter une ligne", ES: "Agregar fila"},
	KeyEditRow:             {TR: "Satırı Düzenle", EN: "Edit Row", DE: "Zeile bearbeiten", FR: "Modifier la ligne", ES: "Editar fila"},
	KeyExport:              {TR: "Dışa Aktar", EN: "Export", DE: "Exportieren", FR: "Exporter", ES: "Exportar"},
	KeyClearFilters:        {TR: "Filtreleri Temizle", EN: "Clear Filters", DE: "Filter zurücksetzen", FR: "Effacer les filtres", ES: "Limpiar filtros"},
	KeyClearSelection:      {TR: "Seçimi Temizle", EN: "Clear Selection", DE: "Auswahl aufheben", FR: "Effacer la sélection", ES: "Limpiar selección"},
	KeyDeleteCurrentRows:   {TR: "Geçerli Satırları Sil", EN: "Delete Current Rows", DE: "Aktuelle Zeilen löschen", FR: "Supprimer les lignes actuelles", ES: "Eliminar filas actuales"},
	KeyExportCurrentRows:   {TR: "Geçerli Satırları Dışa Aktar", EN: "Export Current Rows", DE: "Aktuelle Zeilen exportieren", FR: "Exporter les lignes actuelles", ES: "Exportar filas actuales"},
	KeyCreateNew:           {TR: "Yeni Oluştur", EN: "Create New", DE: "Neu erstellen", FR: "Créer nouveau", ES: "Crear nuevo"},
	KeyView:                {TR: "Görünüm", EN: "View", DE: "Ansicht", FR: "Vue", ES: "Ver"},
	KeyFilterAnything:      {TR: "Herhangi bir şeyi filtrele", EN: "Filter anything", DE: "Alles filtern", FR: "Filtrer n’importe quoi", ES: "Filtrar cualquier cosa"},
	KeyAll:                 {TR: "Tümü", EN: "All", DE: "Alle", FR: "Tous", ES: "Todos"},
	KeySearch:              {TR: "Ara", EN: "Search", DE: "Suche", FR: "Rechercher", ES: "Buscar"},
	KeyRearrangeThisColumn: {TR: "Bu sütunu yeniden düzenle", EN: "Rearrange this column", DE: "Diese Spalte neu anordnen", FR: "Réorganiser cette colonne", ES: "Reorganizar esta columna"},
	KeySortRowsByThisColumn: {
		TR: "Satırları bu sütuna göre sırala", EN: "Sort rows by this column", DE: "Zeilen nach dieser Spalte sortieren",
		FR: "Trier les lignes par cette colonne", ES: "Ordenar filas por esta columna",
	},
	KeyFilterRowsByThisColumn: {
		TR: "Satırları bu sütuna göre filtrele", EN: "Filter rows by this column", DE: "Zeilen nach dieser Spalte filtern",
		FR: "Filtrer les lignes par cette colonne", ES: "Filtrar filas por esta columna",
	},
	KeyUnpin:           {TR: "Sabitlenmeyi Kaldır", EN: "Unpin", DE: "Anheften aufheben", FR: "Détacher", ES: "Desanclar"},
	KeyPinLeft:         {TR: "Sola Sabitle", EN: "Pin Left", DE: "Links anheften", FR: "Épingler à gauche", ES: "Anclar a la izquierda"},
	KeyPinRight:        {TR: "Sağa Sabitle", EN: "Pin Right", DE: "Rechts anheften", FR: "Épingler à droite", ES: "Anclar a la derecha"},
	KeyUnpinThisColumn: {TR: "Bu sütunun sabitlenmesini kaldır", EN: "Unpin this column", DE: "Diese Spalte nicht mehr anheften", FR: "Détacher cette colonne", ES: "Desanclar esta columna"},
	KeyPinThisColumn:   {TR: "Bu sütunu sabitle", EN: "Pin this column", DE: "Diese Spalte anheften", FR: "Épingler cette colonne", ES: "Anclar esta columna"},
	KeySortDescending:  {TR: "Azalan Sırala", EN: "Sort Descending", DE: "Absteigend sortieren", FR: "Trier par ordre décroissant", ES: "Ordenar de forma descendente"},
	KeySortAscending:   {TR: "Artan Sırala", EN: "Sort Ascending", DE: "Aufsteigend sortieren", FR: "Trier par ordre croissant", ES: "Ordenar de forma ascendente"},
	KeyClearSort:       {TR: "Sıralamayı Temizle", EN: "Clear Sort", DE: "Sortierung zurücksetzen", FR: "Effacer le tri", ES: "Limpiar ordenamiento"},
	KeyHide:            {TR: "Gizle", EN: "Hide", DE: "Ausblenden", FR: "Masquer", ES: "Ocultar"},
	KeyShow:            {TR: "Göster", EN: "Show", DE: "Anzeigen", FR: "Afficher", ES: "Mostrar"},
	KeyColumnFilter:    {TR: "Sütun Filtresi", EN: "Column Filter", DE: "Spaltenfilter", FR: "Filtre de colonne", ES: "Filtro de columna"},
	KeyColumnFilterDesc: {
		TR: "Filtre sadece geçerli sütuna uygulanacaktır.", EN: "Filter will be applied to current column only.",
		DE: "Filter wird nur auf die aktuelle Spalte angewendet.", FR: "Le filtre ne sera appliqué qu'à la colonne actuelle.",
		ES: "El filtro se aplicará solo a la columna actual.",
	},
	KeySelectedRowsCount: {
		TR: "{selected} / {total} satır seçildi.", EN: "{selected} of {total} row(s) selected.",
		DE: "{selected} von {total} Zeile(n) ausgewählt.", FR: "{selected} sur {total} ligne(s) sélectionnée(s).",
		ES: "{selected} de {total} fila(s) seleccionada(s).",
	},
	KeyRowsPerPage: {TR: "Sayfa başına satır", EN: "Rows per page", DE: "Zeilen pro Seite", FR: "Lignes par page", ES: "Filas por página"},
	KeyPageOf:      {TR: "Sayfa {page} / {total}", EN: "Page {page} of {total}", DE: "Seite {page} von {total}", FR: "Page {page} sur {total}", ES: "Página {page} de {total}"},
	KeyResetRows:   {TR: "Satırları Sıfırla", EN: "Reset Rows", DE: "Zeilen zurücksetzen", FR: "Réinitialiser les lignes", ES: "Restablecer filas"},
	KeySelectRows:  {TR: "Satırları Seç", EN: "Select Rows", DE: "Zeilen auswählen", FR: "Sélectionner les lignes", ES: "Seleccionar filas"},
	KeyInRangeOf: {
		TR: "{{field}} Aralığında ( {{range}} )", EN: "{{field}} In Range Of ( {{range}} )",
		DE: "{{field}} Im Bereich von ( {{range}} )", FR: "{{field}} Dans la plage de ( {{range}} )",
		ES: "{{field}} En el rango de ( {{range}} )",
	},
	KeyEqualsOrContains: {
		TR: "{field} Eşittir/İçerir {value}", EN: "{field} Equals/Contains {value}", DE: "{field} Entspricht/Enthält {value}",
		FR: "{field} Égal/Contient {value}", ES: "{field} Igual/Contiene {value}",
	},
	KeyIsBetween: {
		TR: "{field} Arasında ( {from} - {to} )", EN: "{field} Is Between ( {from} - {to} )",
		DE: "{field} Liegt zwischen ( {from} - {to} )", FR: "{field} Est entre ( {from} - {to} )",
		ES: "{field} Está entre ( {from} - {to} )",
	},
	KeyNow: {TR: "Şimdi", EN: "Now", DE: "Jetzt", FR: "Maintenant", ES: "Ahora"},
}
